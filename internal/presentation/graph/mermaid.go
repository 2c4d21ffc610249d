package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
)

// CapabilityLookup resolves the capabilities of a dialog id.
type CapabilityLookup func(id string) (dialog.Capability, bool)

// GenerateMermaid renders a dialog stack as a Mermaid flowchart, root at the top.
// Shapes follow capabilities:
// - Waits for input (continue): [/Parallelogram/]
// - Hosts children (resume): [[Subroutine]]
// - Unknown to the set: {{Hexagon}}
// - Default: [Rectangle]
// The active dialog is styled as current.
func GenerateMermaid(stack []domain.DialogInstance, caps CapabilityLookup) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make([]string, len(stack))
	for i, inst := range stack {
		ids[i] = fmt.Sprintf("d%d_%s", i, sanitizeMermaidID(inst.ID))

		opener, closer := "[", "]"
		c, known := dialog.Capability(0), false
		if caps != nil {
			c, known = caps(inst.ID)
		}
		switch {
		case !known:
			opener, closer = "{{", "}}"
		case c.Has(dialog.CanResume):
			opener, closer = "[[", "]]"
		case c.Has(dialog.CanContinue):
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", ids[i], opener, inst.ID, closer)
	}

	for i := 1; i < len(ids); i++ {
		fmt.Fprintf(&sb, "    %s --> %s\n", ids[i-1], ids[i])
	}

	if len(ids) > 0 {
		sb.WriteString("\n    %% Active dialog\n")
		// Force black text (color:#000) for contrast on light and dark themes
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s current;\n", ids[len(ids)-1])
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_", ":", "_")
	return r.Replace(id)
}
