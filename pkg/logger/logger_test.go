package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/farmabem/farmastock-api/pkg/logger"
)

// En producción cada línea sale como JSON con el campo service fijo.
func TestNew_ServiceEnCadaLinea(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "farmastock", Writer: &buf})

	log.Info().Str("k", "v").Msg("arrancando")

	out := buf.String()
	assert.Contains(t, out, `"service":"farmastock"`)
	assert.Contains(t, out, `"message":"arrancando"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestNew_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Writer: &buf})

	log.Info().Msg("no debe salir")
	log.Warn().Msg("sí debe salir")

	out := buf.String()
	assert.NotContains(t, out, "no debe salir")
	assert.Contains(t, out, "sí debe salir")
}

// Component etiqueta las líneas del subsistema sin tocar el logger padre.
func TestComponent_EtiquetaSublogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Writer: &buf})

	log.Component("event-listener").Warn().Msg("desconectado")
	log.Info().Msg("sin componente")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Contains(t, string(lines[0]), `"component":"event-listener"`)
	assert.NotContains(t, string(lines[1]), `"component"`)
}
