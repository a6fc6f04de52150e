package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/augustgrove/pegparse/pkg/token"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe error = %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestPrintTokenPlainLiteral(t *testing.T) {
	lexShowType, lexShowPos = false, false

	tok := token.Token{Type: token.NAME, Literal: "foo", Pos: token.Position{Line: 1, Column: 0}}
	out := captureStdout(t, func() { printToken(tok, false) })
	if strings.TrimSpace(out) != `"foo"` {
		t.Errorf("printToken output = %q", out)
	}
}

func TestPrintTokenShowTypeAndPos(t *testing.T) {
	lexShowType, lexShowPos = true, true
	defer func() { lexShowType, lexShowPos = false, false }()

	tok := token.Token{Type: token.NUMBER, Literal: "1", Pos: token.Position{Line: 2, Column: 4}}
	out := captureStdout(t, func() { printToken(tok, false) })
	if !strings.Contains(out, "NUMBER") || !strings.Contains(out, `"1"`) {
		t.Errorf("printToken output missing type/literal: %q", out)
	}
}

func TestPrintTokenEndmarker(t *testing.T) {
	lexShowType, lexShowPos = false, false

	tok := token.Token{Type: token.ENDMARKER}
	out := captureStdout(t, func() { printToken(tok, false) })
	if strings.TrimSpace(out) != "ENDMARKER" {
		t.Errorf("printToken output = %q", out)
	}
}

func TestPrintTokenErrorFlag(t *testing.T) {
	lexShowType, lexShowPos = false, false

	tok := token.Token{Type: token.ILLEGAL, Literal: "$"}
	out := captureStdout(t, func() { printToken(tok, true) })
	if !strings.Contains(out, "ERROR") || !strings.Contains(out, `"$"`) {
		t.Errorf("printToken output = %q", out)
	}
}

func TestRunLexInlineExpression(t *testing.T) {
	lexExpr = "x = 1\n"
	lexShowType, lexShowPos, lexOnlyErrors = false, false, false
	defer func() { lexExpr = "" }()

	out := captureStdout(t, func() {
		if err := runLex(rootCmd, nil); err != nil {
			t.Errorf("runLex error = %v", err)
		}
	})
	if !strings.Contains(out, `"x"`) || !strings.Contains(out, "ENDMARKER") {
		t.Errorf("runLex output = %q", out)
	}
}
