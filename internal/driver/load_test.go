package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blend65/internal/ast"
	"blend65/internal/diag"
)

// Two-unit fixture program: Game imports Utils.clamp and calls it from
// a function body, so a full analysis run over it stays error-free.
const utilsUnitJSON = `{
  "module": {"name": "Utils", "span": [0, 12]},
  "exports": [{"name": "clamp", "span": [104, 116]}],
  "decls": [
    {
      "kind": "var", "name": "limit", "storage": "const",
      "type": {"kind": "primitive", "name": "byte", "span": [25, 29]},
      "init": {"kind": "number", "value": 15, "span": [32, 34]},
      "span": [14, 34]
    },
    {
      "kind": "func", "name": "clamp",
      "params": [
        {"name": "v", "type": {"kind": "primitive", "name": "byte", "span": [48, 52]}, "span": [45, 52]}
      ],
      "return": {"kind": "primitive", "name": "byte", "span": [55, 59]},
      "body": [
        {
          "kind": "if",
          "cond": {
            "kind": "binary", "op": ">",
            "left": {"kind": "identifier", "name": "v", "span": [66, 67]},
            "right": {"kind": "identifier", "name": "limit", "span": [70, 75]},
            "span": [66, 75]
          },
          "then": [
            {"kind": "return", "value": {"kind": "identifier", "name": "limit", "span": [84, 89]}, "span": [77, 89]}
          ],
          "span": [63, 91]
        },
        {"kind": "return", "value": {"kind": "identifier", "name": "v", "span": [99, 100]}, "span": [92, 100]}
      ],
      "span": [36, 102]
    }
  ]
}`

const gameUnitJSON = `{
  "module": {"name": "Game", "span": [0, 11]},
  "imports": [{"module": "Utils", "symbol": "clamp", "span": [13, 40]}],
  "decls": [
    {
      "kind": "var", "name": "health", "storage": "zp",
      "type": {"kind": "primitive", "name": "byte", "span": [60, 64]},
      "init": {"kind": "number", "value": 10, "span": [67, 69]},
      "span": [42, 69]
    },
    {
      "kind": "func", "name": "heal",
      "params": [
        {"name": "amount", "type": {"kind": "primitive", "name": "byte", "span": [87, 91]}, "span": [79, 91]}
      ],
      "body": [
        {
          "kind": "assign",
          "target": {"kind": "identifier", "name": "health", "span": [100, 106]},
          "value": {
            "kind": "call",
            "callee": {"kind": "identifier", "name": "clamp", "span": [109, 114]},
            "args": [
              {
                "kind": "binary", "op": "+",
                "left": {"kind": "identifier", "name": "health", "span": [115, 121]},
                "right": {"kind": "identifier", "name": "amount", "span": [124, 130]},
                "span": [115, 130]
              }
            ],
            "span": [109, 131]
          },
          "span": [100, 131]
        }
      ],
      "span": [71, 133]
    }
  ]
}`

func writeUnit(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeFixtureBatch(t *testing.T, dir string) []string {
	t.Helper()
	return []string{
		writeUnit(t, dir, "utils.json", utilsUnitJSON),
		writeUnit(t, dir, "game.json", gameUnitJSON),
	}
}

func hasCode(diags []diag.Diagnostic, code diag.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestLoadFilesDecodesUnits(t *testing.T) {
	paths := writeFixtureBatch(t, t.TempDir())

	batch, err := LoadFiles(context.Background(), paths, 0, 2)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if len(batch.Units) != 2 {
		t.Fatalf("expected 2 unit results, got %d", len(batch.Units))
	}
	if !batch.CleanLoad() {
		t.Fatal("expected a clean load")
	}

	// Results keep the input order regardless of decode scheduling.
	for i, path := range paths {
		if batch.Units[i].Path != path {
			t.Fatalf("unit %d: path %q, want %q", i, batch.Units[i].Path, path)
		}
	}

	utils := batch.Units[0].Unit
	if utils == nil || utils.Module == nil || utils.Module.Name != "Utils" {
		t.Fatalf("first unit did not decode as module Utils: %+v", utils)
	}
	if len(utils.Decls) != 2 {
		t.Fatalf("Utils decl count = %d, want 2", len(utils.Decls))
	}
	fn, ok := utils.Decls[1].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("Utils decl 1 is %T, want *ast.FunctionDecl", utils.Decls[1])
	}
	if fn.Name != "clamp" || len(fn.Params) != 1 || fn.Params[0].Name != "v" {
		t.Fatalf("unexpected clamp signature: %+v", fn)
	}
	if len(fn.Body) != 2 {
		t.Fatalf("clamp body has %d statements, want 2", len(fn.Body))
	}

	game := batch.Units[1].Unit
	if game == nil || game.Module.Name != "Game" {
		t.Fatalf("second unit did not decode as module Game")
	}
	if len(game.Imports) != 1 || game.Imports[0].Module != "Utils" || game.Imports[0].Symbol != "clamp" {
		t.Fatalf("unexpected Game imports: %+v", game.Imports)
	}

	if got := batch.Decoded(); len(got) != 2 {
		t.Fatalf("Decoded returned %d units, want 2", len(got))
	}
}

func TestLoadFilesMissingFile(t *testing.T) {
	dir := t.TempDir()
	good := writeUnit(t, dir, "utils.json", utilsUnitJSON)
	missing := filepath.Join(dir, "absent.json")

	batch, err := LoadFiles(context.Background(), []string{good, missing}, 0, 0)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if batch.CleanLoad() {
		t.Fatal("expected CleanLoad to report failure")
	}
	if batch.Units[0].Unit == nil {
		t.Fatal("healthy unit should still decode")
	}

	bad := batch.Units[1]
	if bad.Unit != nil {
		t.Fatal("missing file should not produce a unit")
	}
	if !hasCode(bad.Bag.Items(), diag.IOLoadFileError) {
		t.Fatalf("expected IOLoadFileError, got %+v", bad.Bag.Items())
	}
	if got := batch.Decoded(); len(got) != 1 {
		t.Fatalf("Decoded should skip the failed unit, got %d", len(got))
	}
}

func TestLoadFilesDecodeErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		msgPart string
	}{
		{"unknown decl kind", `{"module":{"name":"Bad"},"decls":[{"kind":"struct","name":"x"}]}`, "unknown declaration kind"},
		{"truncated json", `{"module":{"name":"Bad"`, "decode"},
		{"missing module name", `{"module":{"name":""},"decls":[]}`, "module header has no name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeUnit(t, t.TempDir(), "bad.json", tc.content)
			batch, err := LoadFiles(context.Background(), []string{path}, 0, 1)
			if err != nil {
				t.Fatalf("LoadFiles: %v", err)
			}
			res := batch.Units[0]
			if res.Unit != nil {
				t.Fatal("malformed unit should not decode")
			}
			items := res.Bag.Items()
			if !hasCode(items, diag.IODecodeError) {
				t.Fatalf("expected IODecodeError, got %+v", items)
			}
			if !strings.Contains(items[0].Message, tc.msgPart) {
				t.Fatalf("message %q does not mention %q", items[0].Message, tc.msgPart)
			}
		})
	}
}

func TestBatchDigestTracksContent(t *testing.T) {
	dir := t.TempDir()
	paths := writeFixtureBatch(t, dir)
	ctx := context.Background()

	first, err := LoadFiles(ctx, paths, 0, 0)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	second, err := LoadFiles(ctx, paths, 0, 0)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if first.Digest() != second.Digest() {
		t.Fatal("identical batches should share a digest")
	}

	writeUnit(t, dir, "game.json", strings.Replace(gameUnitJSON, `"value": 10`, `"value": 11`, 1))
	changed, err := LoadFiles(ctx, paths, 0, 0)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if changed.Digest() == first.Digest() {
		t.Fatal("edited content must change the batch digest")
	}
}

func TestListUnitFiles(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, filepath.Join("sub", "b.json"), gameUnitJSON)
	writeUnit(t, dir, "a.json", utilsUnitJSON)
	writeUnit(t, dir, "notes.txt", "not a unit")

	files, err := ListUnitFiles(dir)
	if err != nil {
		t.Fatalf("ListUnitFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d unit files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a.json" {
		t.Fatalf("expected sorted output, got %v", files)
	}
}

func TestLoadDirWalksNestedUnits(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "utils.json", utilsUnitJSON)
	writeUnit(t, dir, filepath.Join("world", "game.json"), gameUnitJSON)

	batch, err := LoadDir(context.Background(), dir, 0, 0)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(batch.Units) != 2 || !batch.CleanLoad() {
		t.Fatalf("expected 2 clean units, got %d (clean=%v)", len(batch.Units), batch.CleanLoad())
	}
}
