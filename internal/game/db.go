package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const playerColumns = `id, name, nationality, position, birthdate, age,
	height_cm, picture_url, team_name, jersey_number, sex`

// EnsureSchema creates the players table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS players (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			nationality TEXT NOT NULL,
			position TEXT,
			birthdate DATE,
			age INTEGER,
			height_cm INTEGER,
			picture_url TEXT,
			team_name TEXT,
			jersey_number INTEGER,
			sex TEXT,
			UNIQUE (name, team_name)
		)`)
	if err != nil {
		return fmt.Errorf("create players table: %w", err)
	}
	return nil
}

// PlayersBySex returns the full roster for a sex marker, id-ordered so
// daily selection sees a stable list.
func PlayersBySex(ctx context.Context, pool *pgxpool.Pool, sex string) ([]Player, error) {
	rows, err := pool.Query(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE sex = $1 ORDER BY id`, sex)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// PlayerByName looks up a player by case-insensitive exact name within a
// sex. Returns ErrPlayerNotFound when no row matches.
func PlayerByName(ctx context.Context, pool *pgxpool.Pool, name, sex string) (Player, error) {
	row := pool.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players
		WHERE LOWER(name) = LOWER($1) AND sex = $2`, name, sex)
	p, err := scanPlayer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Player{}, ErrPlayerNotFound
	}
	return p, err
}

// PlayerByID fetches a single player record.
func PlayerByID(ctx context.Context, pool *pgxpool.Pool, id int) (Player, error) {
	row := pool.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE id = $1`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Player{}, ErrPlayerNotFound
	}
	return p, err
}

// PlayerIDsBySex returns the id list used for daily selection.
func PlayerIDsBySex(ctx context.Context, pool *pgxpool.Pool, sex string) ([]int, error) {
	rows, err := pool.Query(ctx,
		`SELECT id FROM players WHERE sex = $1 ORDER BY id`, sex)
	if err != nil {
		return nil, fmt.Errorf("query player ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan player id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertPlayer writes one roster entry, keyed on (name, team_name) like
// the scraper's table definition.
func UpsertPlayer(ctx context.Context, pool *pgxpool.Pool, p Player) error {
	var birthdate *time.Time
	if p.Birthdate != "" {
		t, err := time.Parse("2006-01-02", p.Birthdate)
		if err != nil {
			return fmt.Errorf("parse birthdate %q: %w", p.Birthdate, err)
		}
		birthdate = &t
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO players (
			name, nationality, position, birthdate, age,
			height_cm, picture_url, team_name, jersey_number, sex
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (name, team_name) DO UPDATE SET
			nationality = EXCLUDED.nationality,
			position = EXCLUDED.position,
			birthdate = EXCLUDED.birthdate,
			age = EXCLUDED.age,
			height_cm = EXCLUDED.height_cm,
			picture_url = EXCLUDED.picture_url,
			jersey_number = EXCLUDED.jersey_number,
			sex = EXCLUDED.sex`,
		p.Name, p.Nationality, nilEmpty(p.Position), birthdate, p.Age,
		p.HeightCM, nilEmpty(p.PictureURL), p.TeamName, p.JerseyNumber, p.Sex,
	)
	return err
}

func nilEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (Player, error) {
	var (
		p         Player
		position  *string
		birthdate *time.Time
		picture   *string
		team      *string
		sex       *string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Nationality, &position, &birthdate, &p.Age,
		&p.HeightCM, &picture, &team, &p.JerseyNumber, &sex,
	)
	if err != nil {
		return Player{}, err
	}
	if position != nil {
		p.Position = *position
	}
	if birthdate != nil {
		p.Birthdate = birthdate.Format("2006-01-02")
	}
	if picture != nil {
		p.PictureURL = *picture
	}
	if team != nil {
		p.TeamName = *team
	}
	if sex != nil {
		p.Sex = *sex
	}
	p.Continent = Continent(p.Nationality)
	p.Flag = FlagEmoji(p.Nationality)
	return p, nil
}
