package sql

import "fmt"

type NodeType int

const (
	NodeBegin NodeType = iota
	NodeCommit
	NodeRollback
	NodePut
	NodeGet
)

func (t NodeType) String() string {
	switch t {
	case NodeBegin:
		return "BEGIN"
	case NodeCommit:
		return "COMMIT"
	case NodeRollback:
		return "ROLLBACK"
	case NodePut:
		return "PUT"
	case NodeGet:
		return "GET"
	default:
		return "UNKNOWN"
	}
}

type PlanNode interface {
	Type() NodeType
	String() string
}

type BeginNode struct{}

func (n *BeginNode) Type() NodeType { return NodeBegin }
func (n *BeginNode) String() string { return "Begin" }

type CommitNode struct{}

func (n *CommitNode) Type() NodeType { return NodeCommit }
func (n *CommitNode) String() string { return "Commit" }

type RollbackNode struct{}

func (n *RollbackNode) Type() NodeType { return NodeRollback }
func (n *RollbackNode) String() string { return "Rollback" }

// PutNode writes Value under Key. Table is informational only.
type PutNode struct {
	Table string
	Key   string
	Value int64
}

func (n *PutNode) Type() NodeType { return NodePut }
func (n *PutNode) String() string { return fmt.Sprintf("Put(%s, %d)", n.Key, n.Value) }

type GetNode struct {
	Table string
	Key   string
}

func (n *GetNode) Type() NodeType { return NodeGet }
func (n *GetNode) String() string { return fmt.Sprintf("Get(%s)", n.Key) }
