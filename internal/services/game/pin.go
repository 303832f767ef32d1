package game

import (
	"fmt"
	"math/rand/v2"
)

// randomPin returns a 4-digit numeric code, 0000-9999. Codes are only unique
// among open lobbies, so they recycle once a game leaves the waiting window.
func randomPin() string {
	return fmt.Sprintf("%04d", rand.IntN(10000))
}
