package codegen

import (
	"strings"
	"testing"

	"github.com/opela-lang/ptcil/internal/lexer"
	"github.com/opela-lang/ptcil/internal/parser"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}
	return Generate(prog)
}

// requireInOrder fails unless each of want appears in out, in that relative
// order (each search resumes right after the previous match).
func requireInOrder(t *testing.T, out string, want ...string) {
	t.Helper()
	pos := 0
	for _, w := range want {
		idx := strings.Index(out[pos:], w)
		if idx < 0 {
			t.Fatalf("expected %q to appear after position %d, got:\n%s", w, pos, out)
		}
		pos += idx + len(w)
	}
}

func TestGenerateEmptyProgramHasNoLocalsOrArithmetic(t *testing.T) {
	out := generate(t, "main end")
	if !strings.Contains(out, ".entrypoint") {
		t.Fatalf("expected an entrypoint, got:\n%s", out)
	}
	if strings.Contains(out, ".locals") {
		t.Fatalf("expected no .locals line for a program with no identifiers, got:\n%s", out)
	}
	if strings.Contains(out, "ldc") {
		t.Fatalf("expected no arithmetic, got:\n%s", out)
	}
}

func TestGenerateEndsWithFixedEpilogue(t *testing.T) {
	out := generate(t, "main end")
	const want = "\t\tret\r\n\t}\r\n}\r\n"
	if !strings.HasSuffix(out, want) {
		t.Fatalf("expected output to end with %q, got:\n%s", want, out)
	}
}

func TestGenerateUsesObjCodeModuleAndMainMethod(t *testing.T) {
	out := generate(t, "main end")
	for _, want := range []string{
		".assembly _obj_code {}",
		".module _obj_code.exe",
		".class public Main extends [mscorlib]System.Object",
		".method public static void main() cil managed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q, got:\n%s", want, out)
		}
	}
}

// TestGenerateSimpleDeclarationAndWrite is boundary scenario 2: the RHS is
// evaluated entirely on float64 (both int operands widened with conv.r8),
// narrowed once with conv.i8, and widened again on every int-kinded load
// before being narrowed right back down for the Write call that consumes it.
func TestGenerateSimpleDeclarationAndWrite(t *testing.T) {
	out := generate(t, `main i_x = 2 + 3; writeln(i_x); end`)
	if !strings.Contains(out, ".locals (int64 i_x)") {
		t.Fatalf("expected .locals (int64 i_x), got:\n%s", out)
	}
	requireInOrder(t, out,
		"ldc.i8 2", "conv.r8",
		"ldc.i8 3", "conv.r8",
		"add", "conv.i8", "stloc i_x",
	)
	requireInOrder(t, out,
		"ldloc i_x", "conv.r8", "conv.i8",
		"call void [mscorlib]System.Console::Write(int64)",
		"call void [mscorlib]System.Console::WriteLine()",
	)
}

// TestGenerateFloatLiteralSkipsNarrowing is boundary scenario 7: a float
// result is never narrowed with conv.i8, either at the store or at Write.
func TestGenerateFloatLiteralSkipsNarrowing(t *testing.T) {
	out := generate(t, `main f_x = 1,250; writeln(f_x); end`)
	if !strings.Contains(out, "ldc.r8 1.25") {
		t.Fatalf("expected ldc.r8 1.25, got:\n%s", out)
	}
	if strings.Contains(out, "conv.i8") {
		t.Fatalf("expected no conv.i8 for a float-kinded value, got:\n%s", out)
	}
}

func TestGenerateUnaryOperators(t *testing.T) {
	out := generate(t, `main f_x = -1,0; b_y = !true; end`)
	requireInOrder(t, out, "ldc.r8 -1.0", "mul")
	if !strings.Contains(out, "not") {
		t.Fatalf("expected unary ! to lower to not, got:\n%s", out)
	}
}

func TestGenerateNestedIfElifElseSharesEndLabel(t *testing.T) {
	out := generate(t, `main
		if (b_flag)
			write(1);
		elif (b_flag)
			write(2);
		else
			write(3);
		end
	end`)
	endCount := strings.Count(out, "IF_END_1:")
	if endCount != 1 {
		t.Fatalf("expected exactly one IF_END_1 label, got %d in:\n%s", endCount, out)
	}
	brCount := strings.Count(out, "br IF_END_1")
	if brCount != 2 {
		t.Fatalf("expected the if and elif arms to both branch to IF_END_1, got %d in:\n%s", brCount, out)
	}
}

func TestGenerateRepeatWhileAndUntilDiffer(t *testing.T) {
	out := generate(t, `main
		repeat write(1); while (true);
		repeat write(2); until (false);
	end`)
	if !strings.Contains(out, "brtrue REPEAT_LOOP_1") {
		t.Fatalf("expected a brtrue back-edge for repeat...while, got:\n%s", out)
	}
	if !strings.Contains(out, "brfalse REPEAT_LOOP_2") {
		t.Fatalf("expected a brfalse back-edge for repeat...until, got:\n%s", out)
	}
}

func TestGenerateReadWithPromptCallsParse(t *testing.T) {
	out := generate(t, `main read("idade: ", i_x); end`)
	requireInOrder(t, out,
		`ldstr "idade: "`,
		"Console::Write(string)",
		"Console::ReadLine()",
		"Int64::Parse(string)",
		"stloc i_x",
	)
}
