package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zby/classpairs/pkg/models"
)

const separator = "--------------------------------------------------------------------------------"

// Writer renders report plans into one text artifact per unit-pair group.
// Files are written atomically: a completed report exists in full or not at
// all.
type Writer struct {
	dir string
	// used maps a claimed filename to the unit pair that owns it, so
	// distinct groups whose first pairs share names get disambiguated
	// instead of silently clobbering each other.
	used map[string]string
}

// NewWriter creates the output directory if needed and returns a writer.
// A directory that cannot be created is a fatal error for the run.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir, used: make(map[string]string)}, nil
}

// Filename returns the artifact name a plan will be written to. The base
// name comes from the group's first pair; when two distinct unit-pair
// groups collide on that base, later groups get a deterministic hash suffix
// derived from their unit identifiers, and Write reports the collision.
func (w *Writer) Filename(plan models.ReportPlan) (name string, collided bool) {
	first := plan.Pairs[0]
	unitKey := plan.AncestorUnit + "\x00" + plan.DescendantUnit

	base := fmt.Sprintf("%s.%s", first.Ancestor, first.Descendant)
	name = base + ".txt"
	if owner, taken := w.used[name]; taken && owner != unitKey {
		name = fmt.Sprintf("%s.%08x.txt", base, uint32(xxhash.Sum64String(unitKey)))
		collided = true
	}
	w.used[name] = unitKey
	return name, collided
}

// Write renders one plan to its artifact and returns the filename used and
// whether the name needed collision disambiguation.
func (w *Writer) Write(plan models.ReportPlan) (string, bool, error) {
	if len(plan.Pairs) == 0 {
		return "", false, fmt.Errorf("empty report plan for units %s, %s", plan.AncestorUnit, plan.DescendantUnit)
	}

	name, collided := w.Filename(plan)
	if err := w.writeAtomic(name, Render(plan)); err != nil {
		return "", collided, err
	}
	return name, collided, nil
}

// writeAtomic writes content to a temp file in the output dir and renames
// it into place.
func (w *Writer) writeAtomic(name, content string) error {
	tmp, err := os.CreateTemp(w.dir, ".classpairs-*")
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(w.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to place report %s: %w", name, err)
	}
	return nil
}

// Render produces the report text for a plan: the relationship header, the
// role lists per involved unit, then the full unit texts separated by a
// rule. Sections appear in a fixed order so reports are reproducible.
func Render(plan models.ReportPlan) string {
	var b strings.Builder

	b.WriteString("Inheritance relationships:\n")
	for _, p := range plan.Pairs {
		fmt.Fprintf(&b, "  %s -> %s\n", p.Ancestor, p.Descendant)
	}
	b.WriteString("\n")

	writeUnitSection(&b, plan.AncestorUnit, plan.AncestorRoles, sameUnitDescendants(plan), plan.AncestorOthers)
	if !plan.SameUnit() {
		writeUnitSection(&b, plan.DescendantUnit, nil, plan.DescendantRoles, plan.DescendantOthers)
	}

	fmt.Fprintf(&b, "Source of %s:\n\n%s\n%s\n", plan.AncestorUnit, plan.AncestorText, separator)
	if !plan.SameUnit() {
		fmt.Fprintf(&b, "Source of %s:\n\n%s\n", plan.DescendantUnit, plan.DescendantText)
	}
	return b.String()
}

// sameUnitDescendants returns the descendant-role list when it lives in the
// ancestor unit, i.e. for single-unit groups.
func sameUnitDescendants(plan models.ReportPlan) []string {
	if plan.SameUnit() {
		return plan.DescendantRoles
	}
	return nil
}

func writeUnitSection(b *strings.Builder, unitID string, ancestors, descendants, others []string) {
	fmt.Fprintf(b, "Unit %s:\n", unitID)
	writeRoleList(b, "Ancestors", ancestors)
	writeRoleList(b, "Descendants", descendants)
	writeRoleList(b, "Other declarations", others)
	b.WriteString("\n")
}

func writeRoleList(b *strings.Builder, label string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(b, "  %s: (none)\n", label)
		return
	}
	fmt.Fprintf(b, "  %s: %s\n", label, strings.Join(names, ", "))
}
