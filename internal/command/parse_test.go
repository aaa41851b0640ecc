package command

import "testing"

func TestParseSplitsOnWhitespace(t *testing.T) {
	name, args, ok := Parse("  git   status\t--short ")
	if !ok {
		t.Fatalf("expected ok")
	}
	if name != "git" {
		t.Fatalf("expected name git, got %q", name)
	}
	if len(args) != 2 || args[0] != "status" || args[1] != "--short" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestParseNoArgs(t *testing.T) {
	name, args, ok := Parse("pwd")
	if !ok || name != "pwd" {
		t.Fatalf("expected pwd, got %q ok=%v", name, ok)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestParseKeepsQuotesLiteral(t *testing.T) {
	name, args, ok := Parse(`echo "hello world"`)
	if !ok || name != "echo" {
		t.Fatalf("expected echo, got %q ok=%v", name, ok)
	}
	if len(args) != 2 || args[0] != `"hello` || args[1] != `world"` {
		t.Fatalf("expected literal quote tokens, got %v", args)
	}
}

func TestParseBlankInput(t *testing.T) {
	if _, _, ok := Parse("   \t  "); ok {
		t.Fatalf("expected blank input to be rejected")
	}
	if _, _, ok := Parse(""); ok {
		t.Fatalf("expected empty input to be rejected")
	}
}
