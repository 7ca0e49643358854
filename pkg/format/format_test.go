package format

import (
	"testing"

	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	braceStyle  = Options{Style: StyleBrace, IndentWidth: 4}
	indentStyle = Options{Style: StyleIndent, IndentWidth: 4}
)

func formatSource(t *testing.T, input string, opts Options) string {
	t.Helper()
	out, err := Source(input, opts)
	require.NoError(t, err)
	return out
}

func TestFormat_Styles(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		brace  string
		indent string
	}{
		{
			name:  "if else",
			input: "let x = 1\nif x > 0 { print(x) } else { print(-x) }",
			brace: `let x = 1
if x > 0 {
    print(x)
} else {
    print(-x)
}
`,
			indent: `let x = 1
if x > 0:
    print(x)
else:
    print(-x)
`,
		},
		{
			name:  "elif chain",
			input: "if a:\n    x = 1\nelif b:\n    x = 2\n",
			brace: `if a {
    x = 1
} elif b {
    x = 2
}
`,
			indent: `if a:
    x = 1
elif b:
    x = 2
`,
		},
		{
			name:  "class",
			input: `class Dog extends Animal { speak() { return "woof" }; eat(food) {} }`,
			brace: `class Dog extends Animal {
    speak() {
        return "woof"
    }

    eat(food) {}
}
`,
			indent: `class Dog(Animal):
    func speak():
        return "woof"

    func eat(food):
        pass
`,
		},
		{
			name:  "empty class",
			input: "class Empty {}",
			brace: "class Empty {}\n",
			indent: `class Empty:
    pass
`,
		},
		{
			name:  "try",
			input: "try { a() } except E as e { raise } except { pass } finally { done() }",
			brace: `try {
    a()
} except E as e {
    raise
} except {
    pass
} finally {
    done()
}
`,
			indent: `try:
    a()
except E as e:
    raise
except:
    pass
finally:
    done()
`,
		},
		{
			name:  "nested loops",
			input: "while not done:\n    for i in range(3):\n        if i == 1:\n            continue\n        total += i ** 2\n",
			brace: `while not done {
    for i in range(3) {
        if i == 1 {
            continue
        }
        total += i ** 2
    }
}
`,
			indent: `while not done:
    for i in range(3):
        if i == 1:
            continue
        total += i ** 2
`,
		},
		{
			name:  "function literal keeps braces",
			input: "let f = func(x) { if x { return 1 } }",
			brace: `let f = func(x) {
    if x {
        return 1
    }
}
`,
			indent: `let f = func(x) {
    if x:
        return 1
}
`,
		},
		{
			name:   "blocks inside brackets stay on one line",
			input:  "items.each(func(x) { print(x); count += 1 })",
			brace:  "items.each(func(x) { print(x); count += 1 })\n",
			indent: "items.each(func(x) { print(x); count += 1 })\n",
		},
		{
			name:   "dict values print inline",
			input:  "let d = {\n    \"a\": func() { return 1 },\n    \"b\": [1, 2],\n}",
			brace:  "let d = {\"a\": func() { return 1 }, \"b\": [1, 2]}\n",
			indent: "let d = {\"a\": func() { return 1 }, \"b\": [1, 2]}\n",
		},
		{
			name:   "imports",
			input:  "import os.path as p\nfrom math import sqrt as root, pi",
			brace:  "import os.path as p\nfrom math import sqrt as root, pi\n",
			indent: "import os.path as p\nfrom math import sqrt as root, pi\n",
		},
		{
			name:  "definitions are separated by blank lines",
			input: "func a() { return 1 }\nfunc b() { return 2 }\nx = a()",
			brace: `func a() {
    return 1
}

func b() {
    return 2
}

x = a()
`,
			indent: `func a():
    return 1

func b():
    return 2

x = a()
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.brace, formatSource(t, tt.input, braceStyle))
			assert.Equal(t, tt.indent, formatSource(t, tt.input, indentStyle))
		})
	}
}

func TestFormat_MinimalParentheses(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x = (a + b) * c", "x = (a + b) * c"},
		{"x = a + (b * c)", "x = a + b * c"},
		{"x = (a - b) - c", "x = a - b - c"},
		{"x = a - (b - c)", "x = a - (b - c)"},
		{"x = 2 ** (3 ** 2)", "x = 2 ** 3 ** 2"},
		{"x = (2 ** 3) ** 2", "x = (2 ** 3) ** 2"},
		{"x = -(2 ** 2)", "x = -(2 ** 2)"},
		{"x = (-2) ** 2", "x = -2 ** 2"},
		{"x = not (a and b)", "x = not (a and b)"},
		{"x = (not a) and b", "x = not a and b"},
		{"x = a == (not b)", "x = a == (not b)"},
		{"x = (-a).b", "x = (-a).b"},
		{"x = -a.b", "x = -a.b"},
		{"x = (a + b)[0]", "x = (a + b)[0]"},
		{"x = (y = 1)", "x = y = 1"},
		{"f = lambda x: x + 1", "f = lambda x: x + 1"},
		{"g = (lambda: 1)()", "g = (lambda: 1)()"},
		{"h = a + (lambda: 1)", "h = a + (lambda: 1)"},
		{"h = [1, (2), ((3))]", "h = [1, 2, 3]"},
		{"d = {'a': (1 + 2)}", `d = {"a": 1 + 2}`},
		{"({})", "({})"},
		{"({'a': 1})['a']", `({"a": 1}["a"])`},
		{"(if a { 1 } else { 2 })", "(if a { 1 } else { 2 })"},
		{"x = (a + b) * -c[0].d", "x = (a + b) * -c[0].d"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected+"\n", formatSource(t, tt.input, braceStyle))
		})
	}
}

func TestFormat_Comments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "leading trailing and final comments",
			input:    "# header\nx = 1 # trailing\n\n# before y\ny = 2\n# end\n",
			expected: "# header\nx = 1 # trailing\n# before y\ny = 2\n# end\n",
		},
		{
			name:     "comment inside block",
			input:    "if a {\n    # inside\n    b()\n}",
			expected: "if a {\n    # inside\n    b()\n}\n",
		},
		{
			name:     "slash comments are kept as written",
			input:    "// note\nx = 1",
			expected: "// note\nx = 1\n",
		},
		{
			name:     "only comments",
			input:    "# only\n",
			expected: "# only\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatSource(t, tt.input, braceStyle))
		})
	}
}

func TestFormat_IndentWidth(t *testing.T) {
	out := formatSource(t, "if a { b }", Options{Style: StyleBrace, IndentWidth: 2})
	assert.Equal(t, "if a {\n  b\n}\n", out)

	// Zero values fall back to the defaults.
	out = formatSource(t, "if a { b }", Options{})
	assert.Equal(t, "if a {\n    b\n}\n", out)
}

func TestFormat_EmptySource(t *testing.T) {
	assert.Equal(t, "", formatSource(t, "", braceStyle))
	assert.Equal(t, "", formatSource(t, "\n\n", indentStyle))
}

func TestSource_RejectsDiagnostics(t *testing.T) {
	_, err := Source("let x 5", braceStyle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected next token to be =")

	_, err = Source(`x = "open`, braceStyle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated string literal")

	// A NUL byte is an illegal character, not the end of the source.
	out, err := Source("let a = 1\x00\nlet b = 2\nfunc keep() { return b }\n", braceStyle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ILLEGAL")
	assert.Empty(t, out)
}

func TestParseStyle(t *testing.T) {
	style, err := ParseStyle("indent")
	require.NoError(t, err)
	assert.Equal(t, StyleIndent, style)

	style, err = ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleBrace, style)

	_, err = ParseStyle("tabs")
	assert.Error(t, err)
}

var idempotenceInputs = []string{
	"let x = 1\nif x > 0 { print(x) } else { print(-x) }",
	"# header\nx = 1 # trailing\n\n# before y\ny = 2\n# end\n",
	"func add(a, b) { return a + b }\nclass Dog extends Animal { speak() { return \"woof\" }; eat(food) {} }",
	"try:\n    risky()\nexcept ValueError as e:\n    handle(e)\nfinally:\n    cleanup()\n",
	"items.each(func(x) { print(x); count += 1 })",
	"let f = func(x) {\n    if x {\n        return 1\n    }\n    return 2\n}",
	"let v = if a { 1 } else { 2 }",
	"while not done:\n    for i in range(3):\n        if i == 1:\n            continue\n        total += i ** 2\n",
	"import os.path as p\nfrom math import sqrt as root, pi",
	"x = (a + b) * -c[0].d",
	`({"k": [1, 2]})`,
	"{ x; y }",
	"if a {\n    # inside\n    b()\n}",
	"func empty() {}",
	"let d = {\n    \"a\": func() { return 1 },\n    \"b\": [1, 2],\n}",
}

func TestFormat_Idempotent(t *testing.T) {
	for _, opts := range []Options{braceStyle, indentStyle} {
		for _, input := range idempotenceInputs {
			t.Run(string(opts.Style)+"/"+input, func(t *testing.T) {
				first := formatSource(t, input, opts)
				second := formatSource(t, first, opts)
				assert.Equal(t, first, second)
			})
		}
	}
}

func TestFormat_PreservesMeaning(t *testing.T) {
	for _, input := range idempotenceInputs {
		t.Run(input, func(t *testing.T) {
			original, err := parser.Parse(input)
			require.NoError(t, err)

			formatted, err := parser.Parse(formatSource(t, input, braceStyle))
			require.NoError(t, err)

			assert.Equal(t, ast.Dump(original), ast.Dump(formatted))
		})
	}
}
