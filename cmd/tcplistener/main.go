package main

import (
	"errors"
	"flag"
	"net"
	"os"

	"github.com/rs/zerolog"

	"github.com/Brownie44l1/http-server/internal/request"
)

func main() {
	addr := flag.String("addr", ":42069", "listen address")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal().Err(err).Msg("listen failed")
	}
	defer listener.Close()
	log.Info().Str("addr", listener.Addr().String()).Msg("listening")

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Error().Err(err).Msg("accept error")
			continue
		}

		go handleConnection(log, conn)
	}
}

// handleConnection prints the parsed request and closes without replying
func handleConnection(log zerolog.Logger, conn net.Conn) {
	defer conn.Close()
	log = log.With().Str("remote", conn.RemoteAddr().String()).Logger()

	raw, err := request.ReadFrom(conn, nil, request.Limits{})
	if err != nil {
		if !errors.Is(err, request.ErrConnectionClosed) {
			log.Error().Err(err).Msg("read failed")
		}
		return
	}

	req, err := request.Parse(raw)
	if err != nil {
		log.Error().Err(err).Msg("parse failed")
		return
	}

	headers := zerolog.Dict()
	for _, f := range req.Headers.Fields() {
		headers = headers.Str(f.Name, f.Value)
	}

	ev := log.Info().
		Str("method", req.Method).
		Str("path", req.Path).
		Int64("content_length", req.ContentLength()).
		Dict("headers", headers)
	if req.HasBody {
		ev = ev.Bytes("body", req.Body)
	}
	ev.Msg("request")
}
