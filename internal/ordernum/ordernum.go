// Package ordernum generates human-readable order numbers.
//
// The number is a display label only: collisions are astronomically unlikely
// but not structurally prevented, so identity and joins always use the order's
// primary id.
package ordernum

import (
	"fmt"
	"math/rand"
	"time"
)

const prefix = "ORD"

// Generate returns a label of the form ORD-<epoch-millis>-<4-digit-random>.
func Generate() string {
	return fmt.Sprintf("%s-%d-%04d", prefix, time.Now().UnixMilli(), rand.Intn(10000))
}
