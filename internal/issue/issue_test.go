// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		NoProjectFormatId,
		MalformedDescriptorId,
		BuildToolNotFoundId,
		BuildFailedId,
		ArchiveFailedId,
		ManifestFailedId,
		ConfigLoadFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if NoProjectFormatId != 1 {
		t.Errorf("NoProjectFormatId = %d, want 1", NoProjectFormatId)
	}
	if len(issues) != len(ids) {
		t.Errorf("issues map has %d entries, want %d", len(issues), len(ids))
	}
}

func TestGet_Unknown(t *testing.T) {
	if Get(Id(0)) != nil {
		t.Error("Get(0) should return nil")
	}
}

func TestValues_Ordered(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	i := Get(NoProjectFormatId)
	links := i.ExtLinks()
	if len(links) == 0 {
		t.Fatal("NoProjectFormat issue should carry an external link")
	}
	links[0] = "mutated"
	if i.ExtLinks()[0] == "mutated" {
		t.Error("ExtLinks() must return a copy")
	}
}

func TestIssue_Render(t *testing.T) {
	original := render
	t.Cleanup(func() { render = original })

	var gotMd string
	render = func(in, _ string) (string, error) {
		gotMd = in
		return "rendered", nil
	}

	out, err := Get(MalformedDescriptorId).Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "rendered" {
		t.Errorf("Render() = %q", out)
	}
	if !strings.Contains(gotMd, "[package]") {
		t.Errorf("markdown missing descriptor example:\n%s", gotMd)
	}
	if !strings.Contains(gotMd, "## See also:") {
		t.Errorf("markdown missing links section:\n%s", gotMd)
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, i := range Values() {
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("issue %d has empty markdown", i.Id())
			continue
		}
		if _, err := i.Render("notty"); err != nil {
			t.Errorf("issue %d Render() error = %v", i.Id(), err)
		}
	}
}
