package graph_test

import (
	"testing"

	"github.com/aretw0/dialogs/internal/presentation/graph"
	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	caps := map[string]dialog.Capability{
		"root":    dialog.CanContinue | dialog.CanResume,
		"confirm": dialog.CanContinue | dialog.CanReprompt,
		"notify":  0,
	}
	lookup := func(id string) (dialog.Capability, bool) {
		c, ok := caps[id]
		return c, ok
	}

	stack := []domain.DialogInstance{
		{ID: "root"},
		{ID: "notify"},
		{ID: "sub-flow.v2"},
		{ID: "confirm"},
	}
	out := graph.GenerateMermaid(stack, lookup)

	assert.Contains(t, out, "graph TD\n")
	assert.Contains(t, out, `d0_root[["root"]]`)
	assert.Contains(t, out, `d1_notify["notify"]`)
	assert.Contains(t, out, `d2_sub_flow_v2{{"sub-flow.v2"}}`)
	assert.Contains(t, out, `d3_confirm[/"confirm"/]`)
	assert.Contains(t, out, "d0_root --> d1_notify")
	assert.Contains(t, out, "d2_sub_flow_v2 --> d3_confirm")
	assert.Contains(t, out, "class d3_confirm current;")
}

func TestGenerateMermaid_EmptyStack(t *testing.T) {
	out := graph.GenerateMermaid(nil, nil)
	assert.Equal(t, "graph TD\n", out)
}
