package mailer

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pierres.shop/app/internal/config"
)

func TestBuildMessage_Validation(t *testing.T) {
	cases := map[string]Email{
		"recipient": {From: "a@b.c", Subject: "s", TextBody: "t"},
		"from":      {To: []string{"x@y.z"}, Subject: "s", TextBody: "t"},
		"subject":   {From: "a@b.c", To: []string{"x@y.z"}, TextBody: "t"},
		"body":      {From: "a@b.c", To: []string{"x@y.z"}, Subject: "s"},
	}
	for name, e := range cases {
		_, err := buildMessage(e, "test")
		assert.ErrorContains(t, err, name)
	}
}

func TestBuildMessage_Alternative(t *testing.T) {
	raw, err := buildMessage(Email{
		FromName: "Pierre's",
		From:     "no-reply@pierres.shop",
		To:       []string{"abigail@example.com"},
		Subject:  "Grüße",
		TextBody: "plain\nline",
		HTMLBody: "<p>html</p>",
		Headers:  map[string]string{"X-Kind": "verify"},
	}, "pierres.shop")
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "abigail@example.com", msg.Header.Get("To"))
	assert.Equal(t, "verify", msg.Header.Get("X-Kind"))
	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Grüße", subject)

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	r := multipart.NewReader(msg.Body, params["boundary"])
	var types, bodies []string
	for {
		p, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(p)
		require.NoError(t, err)
		types = append(types, p.Header.Get("Content-Type"))
		bodies = append(bodies, string(b))
	}
	assert.Equal(t, []string{"text/plain; charset=UTF-8", "text/html; charset=UTF-8"}, types)
	assert.Equal(t, "plain\r\nline\r\n", bodies[0])
}

func TestVerificationEmail(t *testing.T) {
	e := VerificationEmail(Sender{Name: "Pierre's", Address: "no-reply@pierres.shop"}, "abigail@example.com", "Abigail", "http://shop.test/verify?token=abc")
	assert.Equal(t, []string{"abigail@example.com"}, e.To)
	assert.Contains(t, e.TextBody, "Hi Abigail")
	assert.Contains(t, e.TextBody, "http://shop.test/verify?token=abc")

	_, err := buildMessage(e, "pierres.shop")
	assert.NoError(t, err)
}

func TestFromConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.IsType(t, Log{}, FromConfig(config.SMTP{}, logger))
	assert.IsType(t, &SMTPMailer{}, FromConfig(config.SMTP{Host: "mail.local", Port: "25"}, logger))
}

func TestLog_Send(t *testing.T) {
	var buf bytes.Buffer
	l := Log{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}
	require.NoError(t, l.Send(context.Background(), VerificationEmail(Sender{Address: "a@b.c"}, "x@y.z", "", "http://link")))
	assert.Contains(t, buf.String(), "http://link")

	assert.Error(t, l.Send(context.Background(), Email{}))
}

// fakeSMTP accepts one plain SMTP session and returns the DATA payload.
func fakeSMTP(t *testing.T) (addr string, got <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 fake ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			switch cmd := strings.ToUpper(strings.Fields(line + " x")[0]); cmd {
			case "EHLO", "HELO":
				_ = tp.PrintfLine("250 fake")
			case "DATA":
				_ = tp.PrintfLine("354 go ahead")
				data, err := io.ReadAll(tp.DotReader())
				if err != nil {
					return
				}
				out <- string(data)
				_ = tp.PrintfLine("250 queued")
			case "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("250 ok")
			}
		}
	}()
	return ln.Addr().String(), out
}

func TestSMTPMailer_Send(t *testing.T) {
	addr, got := fakeSMTP(t)
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)

	m := NewSMTPMailer(config.SMTP{Host: host, Port: port})
	e := VerificationEmail(Sender{Name: "Pierre's", Address: "no-reply@pierres.shop"}, "abigail@example.com", "Abigail", "http://shop.test/verify?token=abc")
	require.NoError(t, m.Send(context.Background(), e))

	select {
	case data := <-got:
		msg, err := mail.ReadMessage(bufio.NewReader(strings.NewReader(data)))
		require.NoError(t, err)
		body, err := io.ReadAll(msg.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "token=abc")
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}
}

func TestMock(t *testing.T) {
	m := &Mock{}
	require.NoError(t, m.Send(context.Background(), Email{Subject: "one"}))
	require.Len(t, m.Sent(), 1)
	assert.Equal(t, "one", m.Sent()[0].Subject)
}
