// Package conn implements the connection handler: parses one request per
// newline off the wire, builds a Payload, and hands it to the directory's
// mailbox. It reads with a bufio.Scanner rather than a fixed-size buffer so
// a single read can yield multiple requests and a request can span reads.
package conn

import (
	"bufio"
	"io"
	"net"
	"strings"

	"redigo/internal/actor"
	"redigo/internal/logging"
	"redigo/internal/proto"
	"redigo/internal/redigoerr"
	"redigo/internal/registry"
)

// Handler parses wire requests and forwards them to the directory.
type Handler struct {
	mailbox chan<- actor.Message
	log     *logging.Logger
}

func New(mailbox chan<- actor.Message, log *logging.Logger) *Handler {
	return &Handler{mailbox: mailbox, log: log}
}

// Serve runs a connection's read loop until EOF or error. It is meant to be
// run in its own goroutine per accepted connection.
func (h *Handler) Serve(c net.Conn) {
	defer c.Close()
	addr := c.RemoteAddr().String()
	h.log.Debugf("connection opened: %s", addr)

	scanner := bufio.NewScanner(c)
	for scanner.Scan() {
		h.handleLine(scanner.Text(), c)
	}
	if err := scanner.Err(); err != nil {
		h.log.Warnf("connection %s read error: %v", addr, err)
	}
	h.log.Debugf("connection closed: %s", addr)
}

// handleLine parses one wire request: first token command, second token
// key (for non-keys commands only), remaining tokens args.
func (h *Handler) handleLine(line string, w io.Writer) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return
	}

	cmd := strings.ToLower(tokens[0])
	spec, ok := registry.Lookup(cmd)
	if !ok {
		reply(w, redigoerr.ErrUnknownCommand)
		return
	}

	var key string
	var args []string
	if spec.Kind == registry.KindKeys {
		args = tokens[1:]
	} else {
		if len(tokens) < 2 {
			reply(w, redigoerr.ErrMissingKey)
			return
		}
		key = tokens[1]
		args = tokens[2:]
	}

	if spec.Kind != registry.KindKeys && key == "" {
		reply(w, redigoerr.ErrMissingKey)
		return
	}
	if !registry.InRange(cmd, args) {
		reply(w, redigoerr.ErrArity)
		return
	}

	h.mailbox <- actor.Message{Payload: &proto.Payload{
		Command:  cmd,
		Key:      key,
		Args:     args,
		ToClient: w,
	}}
}

func reply(w io.Writer, err error) {
	io.WriteString(w, redigoerr.Render(err)+"\n")
}
