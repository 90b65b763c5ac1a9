package main

import (
	"strings"
	"testing"

	"github.com/quiverbridge/ptrreg/errors"
	"github.com/quiverbridge/ptrreg/registry"
)

func TestExecute_Lifecycle(t *testing.T) {
	reg := registry.New()

	out, err := execute(reg, "register 1000 Foo")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if out != "1000^Foo" {
		t.Fatalf("register = %q, want %q", out, "1000^Foo")
	}

	if out, err = execute(reg, "verify 1000 Foo"); err != nil || out != "ok" {
		t.Fatalf("verify = (%q, %v)", out, err)
	}
	if out, err = execute(reg, "unregister 1000 Foo"); err != nil || out != "ok" {
		t.Fatalf("unregister = (%q, %v)", out, err)
	}
	if _, err = execute(reg, "verify 1000 Foo"); !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("verify after release = %v, want NotFound", err)
	}
}

func TestExecute_PinInvalidate(t *testing.T) {
	reg := registry.New()

	if out, err := execute(reg, "pin 3000 sentinel"); err != nil || out != "3000^sentinel" {
		t.Fatalf("pin = (%q, %v)", out, err)
	}
	// Pinned addresses survive unregister and any-tag verify.
	if _, err := execute(reg, "unregister 3000"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(reg, "verify 3000 whatever"); err != nil {
		t.Fatalf("pinned verify failed: %v", err)
	}
	if _, err := execute(reg, "invalidate 3000"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(reg, "verify 3000"); !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("verify after invalidate = %v, want NotFound", err)
	}
}

func TestExecute_SubtagCastList(t *testing.T) {
	reg := registry.New()

	if out, err := execute(reg, "subtag Derived Base"); err != nil || out != "defined" {
		t.Fatalf("subtag = (%q, %v)", out, err)
	}
	if out, err := execute(reg, "subtags"); err != nil || out != "Derived -> Base" {
		t.Fatalf("subtags = (%q, %v)", out, err)
	}

	if _, err := execute(reg, "register 2000 Derived"); err != nil {
		t.Fatal(err)
	}
	out, err := execute(reg, "cast 2000^Derived Base")
	if err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	if out != "2000^Base" {
		t.Fatalf("cast = %q, want %q", out, "2000^Base")
	}

	out, err = execute(reg, "list Base")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2000^Base") {
		t.Fatalf("list = %q", out)
	}

	if out, err := execute(reg, "rmsubtag Derived"); err != nil || out != "removed" {
		t.Fatalf("rmsubtag = (%q, %v)", out, err)
	}
	if _, err := execute(reg, "cast 2000^Base Derived"); !errors.IsKind(err, errors.KindIncompatibleCast) {
		t.Fatalf("cast after edge removal = %v, want IncompatibleCast", err)
	}
}

func TestExecute_Diagnostics(t *testing.T) {
	reg := registry.New()
	if _, err := execute(reg, "register 1000 Foo"); err != nil {
		t.Fatal(err)
	}

	out, err := execute(reg, "dissect 1000^Foo Foo")
	if err != nil {
		t.Fatalf("dissect failed: %v", err)
	}
	if !strings.Contains(out, "relation=equal") || !strings.Contains(out, "status=ok") {
		t.Fatalf("dissect = %q", out)
	}

	out, err = execute(reg, "info 1000^Foo")
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if !strings.Contains(out, "registration=single") || !strings.Contains(out, "match=ok") {
		t.Fatalf("info = %q", out)
	}

	out, err = execute(reg, "compare 1000^Foo 1000^Bar")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if out != "same address, different tag" {
		t.Fatalf("compare = %q", out)
	}

	out, err = execute(reg, "parse 0x1000^Foo")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if out != "addr=1000 tag=Foo" {
		t.Fatalf("parse = %q", out)
	}
}

func TestExecute_Errors(t *testing.T) {
	reg := registry.New()

	if _, err := execute(reg, "frobnicate"); err == nil {
		t.Fatal("unknown command should fail")
	}
	if _, err := execute(reg, "register"); err == nil {
		t.Fatal("missing args should fail")
	}
	if _, err := execute(reg, "register zz Foo"); !errors.IsKind(err, errors.KindInvalidValue) {
		t.Fatalf("bad addr = %v, want InvalidValue", err)
	}
	if out, _ := execute(reg, ""); out != "" {
		t.Fatalf("empty line = %q", out)
	}

	out, err := execute(reg, "help")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "register <addr>") {
		t.Fatal("help should list commands")
	}
}
