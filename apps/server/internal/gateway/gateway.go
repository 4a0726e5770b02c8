// Package gateway accepts client connections and shuttles lines
// between them and the room. It knows nothing about game rules; every
// parsed command is handed to the room and every returned error goes
// straight back to the client as text.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"oldmaid-lite/game"
	"oldmaid-lite/protocol"
)

const (
	namePrompt = "Please enter your name:"
	sendBuffer = 64
)

// Room is the gateway's view of the table actor.
type Room interface {
	Join(sessionID uint64, name string, send func(string)) error
	Command(sessionID uint64, cmd protocol.Command) error
	Leave(sessionID uint64)
}

type Server struct {
	room   Room
	nextID atomic.Uint64
}

func NewServer(room Room) *Server {
	return &Server{room: room}
}

// ListenAndServe accepts TCP clients until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	log.Printf("[Gateway] listening on %s", ln.Addr())

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}
		go s.handle(newTCPConn(conn))
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request and runs the same session loop the
// TCP listener does.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] websocket upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	go s.handle(newWSConn(conn))
}

// session pairs a connection with its outbound queue. Writes go
// through the queue so a stalled client cannot block the room.
type session struct {
	id   uint64
	conn lineConn
	send chan string

	once sync.Once
	done chan struct{}
}

// Send queues one line. Full queue means the client is not keeping
// up; the line is dropped rather than stalling the caller.
func (s *session) Send(line string) {
	select {
	case s.send <- line:
	default:
		log.Printf("[Gateway] session %d send queue full, dropping line", s.id)
	}
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *session) writePump() {
	for {
		select {
		case line := <-s.send:
			if err := s.conn.WriteLine(line); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Server) handle(conn lineConn) {
	sess := &session{
		id:   s.nextID.Add(1),
		conn: conn,
		send: make(chan string, sendBuffer),
		done: make(chan struct{}),
	}
	go sess.writePump()
	defer sess.close()

	name, ok := s.register(sess)
	if !ok {
		return
	}
	log.Printf("[Gateway] %s registered as %q (session %d)", conn.RemoteAddr(), name, sess.id)
	defer s.room.Leave(sess.id)

	for {
		line, err := conn.ReadLine()
		if err != nil {
			log.Printf("[Gateway] session %d (%s) closed: %v", sess.id, name, err)
			return
		}
		cmd, err := protocol.Parse(line)
		if err != nil {
			sess.Send(err.Error())
			continue
		}
		if err := s.room.Command(sess.id, cmd); err != nil {
			sess.Send(err.Error())
		}
	}
}

// register runs the name handshake. A taken name re-prompts; an empty
// name or a full or busy table ends the connection. Writes here go
// straight to the connection: nothing is queued for this session until
// its Join succeeds, and direct writes survive the close that follows
// a rejection.
func (s *Server) register(sess *session) (string, bool) {
	if err := sess.conn.WriteLine(namePrompt); err != nil {
		return "", false
	}
	for {
		line, err := sess.conn.ReadLine()
		if err != nil {
			return "", false
		}
		name := strings.TrimSpace(line)
		if name == "" {
			sess.conn.WriteLine("A name cannot be empty. Goodbye.")
			return "", false
		}

		err = s.room.Join(sess.id, name, sess.Send)
		switch {
		case err == nil:
			sess.Send(fmt.Sprintf("Welcome, %s! Send 'start' when you are ready to play.", name))
			return name, true
		case errors.Is(err, game.ErrNameTaken):
			sess.conn.WriteLine(err.Error())
			if err := sess.conn.WriteLine(namePrompt); err != nil {
				return "", false
			}
		default:
			sess.conn.WriteLine(err.Error())
			return "", false
		}
	}
}
