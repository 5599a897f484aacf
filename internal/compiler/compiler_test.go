package compiler

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestCompileEmptyProgram(t *testing.T) {
	res, err := Compile("main end", WithLogger(silentLogger()))
	require.NoError(t, err)
	assert.Contains(t, res.CIL, ".entrypoint")
	assert.Len(t, res.Program.Body.Items, 0)
}

func TestCompileDeclareAndWrite(t *testing.T) {
	res, err := Compile(`main i_x = 1; write(i_x); end`, WithLogger(silentLogger()))
	require.NoError(t, err)
	assert.Contains(t, res.CIL, "stloc i_x")
	assert.Contains(t, res.CIL, "Console::Write(int64)")
}

func TestCompileUndeclaredUseFails(t *testing.T) {
	_, err := Compile(`main write(i_x); end`, WithLogger(silentLogger()))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "erro semântico"))
}

func TestCompileRedeclarationFails(t *testing.T) {
	_, err := Compile(`main i_x; i_x; end`, WithLogger(silentLogger()))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "erro semântico"))
}

func TestCompileMalformedIdentifierFails(t *testing.T) {
	_, err := Compile(`main iBad; end`, WithLogger(silentLogger()))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "erro léxico"))
	assert.Contains(t, err.Error(), "identificador inválido")
}

func TestCompileUnterminatedStringFails(t *testing.T) {
	_, err := Compile(`main writeln("hi); end`, WithLogger(silentLogger()))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "erro léxico"))
	assert.Contains(t, err.Error(), "constante_string inválida")
}

func TestCompileFloatLiteral(t *testing.T) {
	res, err := Compile(`main f_x = 1,250; end`, WithLogger(silentLogger()))
	require.NoError(t, err)
	assert.Contains(t, res.CIL, "ldc.r8 1.25")
}

func TestCompileNestedIfElifElse(t *testing.T) {
	res, err := Compile(`main
		b_flag;
		if (b_flag)
			write(1);
		elif (b_flag)
			write(2);
		else
			write(3);
		end
	end`, WithLogger(silentLogger()))
	require.NoError(t, err)
	assert.Contains(t, res.CIL, "IF_END_1:")
}

func TestCompileSyntaxErrorFails(t *testing.T) {
	_, err := Compile(`main i_x = ; end`, WithLogger(silentLogger()))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "erro sintático"))
	assert.Contains(t, err.Error(), "expressão")
}

func TestCompileIsIdempotent(t *testing.T) {
	src := `main i_x = 1 + 2; write(i_x); end`
	res1, err1 := Compile(src, WithLogger(silentLogger()))
	res2, err2 := Compile(src, WithLogger(silentLogger()))
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, res1.CIL, res2.CIL)
}
