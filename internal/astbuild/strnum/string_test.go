package strnum

import "testing"

func TestStringSimple(t *testing.T) {
	v, err := String(`"hello"`)
	if err != nil {
		t.Fatalf("String error = %v", err)
	}
	if v.IsBytes || v.Text != "hello" {
		t.Errorf("String(%q) = %+v, want Text=hello", `"hello"`, v)
	}
}

func TestStringEscapes(t *testing.T) {
	v, err := String(`"a\nb\tc"`)
	if err != nil {
		t.Fatalf("String error = %v", err)
	}
	if v.Text != "a\nb\tc" {
		t.Errorf("Text = %q, want %q", v.Text, "a\nb\tc")
	}
}

func TestStringRawBypassesEscapes(t *testing.T) {
	v, err := String(`r"a\nb"`)
	if err != nil {
		t.Fatalf("String error = %v", err)
	}
	if v.Text != `a\nb` {
		t.Errorf("raw Text = %q, want %q", v.Text, `a\nb`)
	}
}

func TestStringTripleQuoted(t *testing.T) {
	v, err := String(`"""line1
line2"""`)
	if err != nil {
		t.Fatalf("String error = %v", err)
	}
	if v.Text != "line1\nline2" {
		t.Errorf("Text = %q", v.Text)
	}
}

func TestStringBytesMode(t *testing.T) {
	v, err := String(`b"abc"`)
	if err != nil {
		t.Fatalf("String error = %v", err)
	}
	if !v.IsBytes || string(v.Bytes) != "abc" {
		t.Errorf("String(b\"abc\") = %+v", v)
	}
}

func TestStringBytesRejectsNonASCII(t *testing.T) {
	if _, err := String("b\"caf\xc3\xa9\""); err == nil {
		t.Error("expected error for non-ASCII byte literal")
	}
}

func TestStringUPrefixTracked(t *testing.T) {
	v, err := String(`u"abc"`)
	if err != nil {
		t.Fatalf("String error = %v", err)
	}
	if !v.UPrefixed {
		t.Error("UPrefixed = false, want true")
	}
}

func TestStringRejectsBytesFString(t *testing.T) {
	if _, err := String(`bf"abc"`); err == nil {
		t.Error("expected error combining b and f prefixes")
	}
}

func TestStringFStringIsPlaceholder(t *testing.T) {
	v, err := String(`f"hello {name}"`)
	if err != nil {
		t.Fatalf("String error = %v", err)
	}
	if !v.IsFString {
		t.Error("IsFString = false, want true")
	}
	if v.Text != "hello {name}" {
		t.Errorf("Text = %q, want unparsed body", v.Text)
	}
}

func TestStringInvalidEscapeIsWarningNotFatal(t *testing.T) {
	v, err := String(`"bad \q escape"`)
	if v == nil {
		t.Fatalf("String returned nil value alongside err=%v", err)
	}
	if _, ok := err.(*InvalidEscape); !ok {
		t.Fatalf("err = %v (%T), want *InvalidEscape", err, err)
	}
}

func TestConcatenateStringsText(t *testing.T) {
	a, _ := String(`"foo"`)
	b, _ := String(`"bar"`)
	v, err := ConcatenateStrings([]*StringValue{a, b})
	if err != nil {
		t.Fatalf("ConcatenateStrings error = %v", err)
	}
	if v.Text != "foobar" {
		t.Errorf("Text = %q, want foobar", v.Text)
	}
}

func TestConcatenateStringsBytes(t *testing.T) {
	a, _ := String(`b"foo"`)
	b, _ := String(`b"bar"`)
	v, err := ConcatenateStrings([]*StringValue{a, b})
	if err != nil {
		t.Fatalf("ConcatenateStrings error = %v", err)
	}
	if string(v.Bytes) != "foobar" {
		t.Errorf("Bytes = %q, want foobar", v.Bytes)
	}
}

func TestConcatenateStringsMixedIsError(t *testing.T) {
	a, _ := String(`"foo"`)
	b, _ := String(`b"bar"`)
	if _, err := ConcatenateStrings([]*StringValue{a, b}); err == nil {
		t.Error("expected error mixing bytes and text literals")
	}
}
