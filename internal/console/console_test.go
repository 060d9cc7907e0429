package console

import (
	"testing"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Scan(t *testing.T) {
	toks, err := NewLexer(`d = f(1.5e3, .5, 2i, 'it''s', "q") % note`).Scan()
	require.NoError(t, err)

	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	assert.Equal(t, []TokenType{
		IDENT, ASSIGN, IDENT, LPAREN, NUMBER, COMMA, NUMBER, COMMA, IMAGINARY, COMMA, CHAR, COMMA, STRING, RPAREN, EOF,
	}, types)
	assert.Equal(t, 1500.0, toks[4].Literal)
	assert.Equal(t, 0.5, toks[6].Literal)
	assert.Equal(t, 2.0, toks[8].Literal)
	assert.Equal(t, "it's", toks[10].Literal)
	assert.Equal(t, 6, toks[3].Col)
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"bad character", "f(1 # 2)", `unexpected character '#'`},
		{"unterminated char", "f('abc", "unterminated char array"},
		{"number glued to name", "f(12abc)", "malformed number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer(tt.src).Scan()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParse_DensityCall(t *testing.T) {
	st, err := Parse(`[d] = get_atm_density(20, 30, 120, '2019-01-25 14:30:00');`)
	require.NoError(t, err)

	assert.Equal(t, []string{"d"}, st.Targets)
	assert.Equal(t, 1, st.Nargout())
	assert.Equal(t, "get_atm_density", st.Name)
	assert.True(t, st.Call)
	assert.True(t, st.Silent)

	args, err := st.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, []entities.Argument{
		entities.ScalarArgument(20),
		entities.ScalarArgument(30),
		entities.ScalarArgument(120),
		entities.CharArgument("2019-01-25 14:30:00"),
	}, args)
}

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		nargout int
		args    []entities.Argument
	}{
		{"no outputs", `get_atm_density(20, 30, 120, "2019-01-25 14:30:00")`, 0, []entities.Argument{
			entities.ScalarArgument(20), entities.ScalarArgument(30), entities.ScalarArgument(120),
			entities.StringArgument("2019-01-25 14:30:00"),
		}},
		{"two outputs", `[a, b] = f(-1)`, 2, []entities.Argument{entities.ScalarArgument(-1)}},
		{"space separated targets", `[a b] = f()`, 2, []entities.Argument{}},
		{"complex", `x = f(1+2i, -3j, 4-0.5i)`, 1, []entities.Argument{
			entities.ComplexArgument(1, 2), entities.ComplexArgument(0, -3), entities.ComplexArgument(4, -0.5),
		}},
		{"vector", `x = f([1, 2 -3], [])`, 1, []entities.Argument{entities.ArrayArgument(1, 2, -3), entities.ArrayArgument()}},
		{"logical", `x = f(true, false)`, 1, []entities.Argument{entities.LogicalArgument(true), entities.LogicalArgument(false)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.nargout, st.Nargout())
			args, err := st.Resolve(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestParse_Variables(t *testing.T) {
	st, err := Parse(`h = 20`)
	require.NoError(t, err)
	require.NotNil(t, st.Value)
	assert.Equal(t, []string{"h"}, st.Targets)
	assert.Empty(t, st.Name)

	st, err = Parse(`d = get_atm_density(h, 30, 120, epoch)`)
	require.NoError(t, err)

	vars := map[string]entities.Argument{
		"h":     entities.ScalarArgument(20),
		"epoch": entities.CharArgument("2019-01-25 14:30:00"),
	}
	args, err := st.Resolve(vars)
	require.NoError(t, err)
	assert.Equal(t, entities.CharArgument("2019-01-25 14:30:00"), args[3])

	delete(vars, "epoch")
	_, err = st.Resolve(vars)
	assert.EqualError(t, err, "Undefined variable 'epoch'.")
}

func TestParse_BareName(t *testing.T) {
	st, err := Parse("d")
	require.NoError(t, err)
	assert.Equal(t, "d", st.Name)
	assert.False(t, st.Call)
	assert.Zero(t, st.Nargout())
}

func TestParse_Blank(t *testing.T) {
	st, err := Parse("   % just a comment")
	assert.NoError(t, err)
	assert.Nil(t, st)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		incomplete bool
	}{
		{"open call", "d = f(1, 2", true},
		{"trailing comma", "d = f(1,", true},
		{"open targets", "[a, b", true},
		{"missing comma", "d = f(1 2)", false},
		{"trailing garbage", "d = f(1) x", false},
		{"value without target", "20", false},
		{"complex in vector", "f([1 2i])", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			assert.Equal(t, tt.incomplete, IsIncomplete(err))
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		arg  entities.Argument
		want string
	}{
		{entities.ScalarArgument(0.0889), "d = 0.0889"},
		{entities.ScalarArgument(1.23456789e-12), "d = 1.23457e-12"},
		{entities.ArrayArgument(1, 2), "d = [1 2]"},
		{entities.ComplexArgument(1, -2), "d = 1-2i"},
		{entities.CharArgument("it's"), "d = 'it''s'"},
		{entities.StringArgument("x"), `d = "x"`},
		{entities.LogicalArgument(true), "d = true"},
		{entities.Argument{Class: entities.ClassCell}, "d = <cell>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format("d", tt.arg))
	}
}
