package idgen

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"

	"github.com/example/aurora-storefront/internal/domain"
)

const orderPrefix = "ORD-"

// Snowflake — генератор упорядоченных по времени id заказов вида ORD-1XJ8Q2K7W3N4.
type Snowflake struct {
	node *snowflake.Node
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrapf(err, "snowflake node %d", nodeID)
	}
	return &Snowflake{node: node}, nil
}

func (s *Snowflake) NextOrderID() string {
	return orderPrefix + strings.ToUpper(s.node.Generate().Base36())
}

var _ domain.OrderIDGenerator = (*Snowflake)(nil)
