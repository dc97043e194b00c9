package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Ventas-api/pkg/config"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPSender_Send(t *testing.T) {
	d := &recordingDialer{}
	s := &SMTPSender{from: "no-reply@ventas.local", dialer: d}

	require.NoError(t, s.Send(context.Background(), "ana@example.com", "Bienvenida", "Hola Ana"))
	require.Len(t, d.sent, 1)
	m := d.sent[0]
	assert.Equal(t, []string{"no-reply@ventas.local"}, m.GetHeader("From"))
	assert.Equal(t, []string{"ana@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Bienvenida"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Hola Ana")
}

func TestSMTPSender_Errores(t *testing.T) {
	d := &recordingDialer{err: errors.New("conexión rechazada")}
	s := &SMTPSender{from: "x@y.z", dialer: d}
	assert.ErrorContains(t, s.Send(context.Background(), "a@b.c", "s", "b"), "conexión rechazada")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.sent = nil
	assert.ErrorIs(t, s.Send(ctx, "a@b.c", "s", "b"), context.Canceled)
	assert.Empty(t, d.sent, "con el contexto cancelado no se intenta el envío")
}

func TestNew(t *testing.T) {
	assert.IsType(t, Nop{}, New(config.SMTPConfig{}))
	assert.IsType(t, &SMTPSender{}, New(config.SMTPConfig{Host: "smtp.example.com", Port: 587}))
	assert.NoError(t, Nop{}.Send(context.Background(), "a", "b", "c"))
}
