package game

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"math/rand"
)

// dailySeed derives a deterministic PRNG seed from the day identifier and
// the mode's sex marker. The sex is part of the seed so the men and women
// tracks rotate independently.
func dailySeed(dayID string, mode Mode) int64 {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%s", dayID, mode.Sex())))
	n := new(big.Int).SetBytes(sum[:])
	return n.Mod(n, big.NewInt(100_000_000)).Int64()
}

// PickDaily selects the secret player id for a day from the mode's id
// list. The list must be in a stable order (the id-sorted roster) for the
// pick to be reproducible across processes.
func PickDaily(dayID string, mode Mode, playerIDs []int) (int, bool) {
	if len(playerIDs) == 0 {
		return 0, false
	}
	rng := rand.New(rand.NewSource(dailySeed(dayID, mode)))
	return playerIDs[rng.Intn(len(playerIDs))], true
}
