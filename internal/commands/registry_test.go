package commands_test

import (
	"context"
	"flag"
	"io"
	"strings"
	"testing"

	"taskcal/internal/commands"
	"taskcal/internal/config"
	"taskcal/internal/service"
)

type stubCmd struct {
	name    string
	aliases []string
}

func (c *stubCmd) Name() string                { return c.name }
func (c *stubCmd) Aliases() []string           { return c.aliases }
func (c *stubCmd) Synopsis() string            { return "stub" }
func (c *stubCmd) Usage() string               { return "taskcal " + c.name }
func (c *stubCmd) NeedsStore() bool            { return false }
func (c *stubCmd) RegisterFlags(*flag.FlagSet) {}
func (c *stubCmd) Run(context.Context, *config.Config, service.Service, []string, io.Writer, io.Writer) int {
	return 0
}

type sectionedStub struct {
	stubCmd
	section string
}

func (c *sectionedStub) Section() string { return c.section }

func TestRegistry_FindByAlias(t *testing.T) {
	r := commands.NewRegistry()
	cmd := &stubCmd{name: "done", aliases: []string{"toggle"}}
	if err := r.Register(cmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"done", "toggle"} {
		got, ok := r.Find(name)
		if !ok || got != cmd {
			t.Errorf("expected %q to find done, got %v %v", name, got, ok)
		}
	}
	if all := r.All(); len(all) != 1 {
		t.Errorf("expected one command from All, got %d", len(all))
	}
}

func TestRegistry_RegisterErrors(t *testing.T) {
	tests := []struct {
		cmd  commands.Command
		want string
	}{
		{&stubCmd{name: "rm"}, "command name rm already used by rm"},
		{&stubCmd{name: "remove", aliases: []string{"del"}}, "command name del already used by delete"},
		{&stubCmd{name: "--list"}, `invalid command name: "--list"`},
		{&stubCmd{name: "x", aliases: []string{""}}, `invalid command name: ""`},
		{&sectionedStub{stubCmd{name: "sync"}, "Cloud"}, `command sync: unknown section "Cloud"`},
	}
	for _, tt := range tests {
		r := commands.NewRegistry()
		if err := r.Register(&stubCmd{name: "rm"}); err != nil {
			t.Fatal(err)
		}
		if err := r.Register(&stubCmd{name: "delete", aliases: []string{"del"}}); err != nil {
			t.Fatal(err)
		}

		err := r.Register(tt.cmd)
		if err == nil || err.Error() != tt.want {
			t.Errorf("%s: expected %q, got %v", tt.cmd.Name(), tt.want, err)
		}
		if _, ok := r.Find("x"); ok {
			t.Errorf("%s: rejected command must not be partly registered", tt.cmd.Name())
		}
	}
}

func TestRegistry_Sections(t *testing.T) {
	r := commands.NewRegistry()
	for _, c := range []commands.Command{
		&sectionedStub{stubCmd{name: "week"}, commands.SectionCalendar},
		&stubCmd{name: "version"},
		&sectionedStub{stubCmd{name: "rm"}, commands.SectionTasks},
		&sectionedStub{stubCmd{name: "add"}, commands.SectionTasks},
	} {
		if err := r.Register(c); err != nil {
			t.Fatal(err)
		}
	}

	var got []string
	for _, sec := range r.Sections() {
		var names []string
		for _, c := range sec.Commands {
			names = append(names, c.Name())
		}
		got = append(got, sec.Title+": "+strings.Join(names, " "))
	}
	want := "Tasks: add rm|Calendar: week|Other: version"
	if strings.Join(got, "|") != want {
		t.Errorf("expected %q, got %q", want, strings.Join(got, "|"))
	}
}

func TestDefaultRegistry_EveryCommandHasKnownSection(t *testing.T) {
	for _, sec := range commands.DefaultRegistry.Sections() {
		for _, c := range sec.Commands {
			if sec.Title == commands.SectionOther && c.Name() != "help" && c.Name() != "version" {
				t.Errorf("command %s has no help section", c.Name())
			}
		}
	}
}
