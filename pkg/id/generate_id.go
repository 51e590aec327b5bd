package id

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
// Used for addresses and transaction ids.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Sequence hands out time-ordered event ids from one snowflake node.
type Sequence struct {
	once   sync.Once
	nodeID int64
	node   *snowflake.Node
}

func NewSequence(nodeID int64) *Sequence { return &Sequence{nodeID: nodeID} }

// Next returns a snowflake id, or a KSUID when the node id is out of range.
func (s *Sequence) Next() string {
	s.once.Do(func() {
		n, err := snowflake.NewNode(s.nodeID)
		if err == nil {
			s.node = n
		}
	})
	if s.node == nil {
		return ksuid.New().String()
	}
	return s.node.Generate().String()
}
