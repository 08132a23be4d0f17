// This file is part of Gopherboy.
//
// Gopherboy is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopherboy is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopherboy.  If not, see <https://www.gnu.org/licenses/>.

// Package websocket is a video renderer that serves the emulated screen to
// websocket clients.
//
// Each frame is sent as a single binary message. The first four bytes are the
// width and height of the image as little-endian uint16 values. The remainder
// of the message is the RGBA pixel data. Frames that are identical to the
// previous frame are not sent. A newly connected client is sent the most
// recent frame immediately.
package websocket

import (
	"encoding/binary"
	"errors"
	"image"
	"net"
	"net/http"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/gorilla/websocket"
	"github.com/jetsetilly/gopherboy/curated"
	"github.com/jetsetilly/gopherboy/hardware/bus"
	"github.com/jetsetilly/gopherboy/logger"
	"github.com/jetsetilly/gopherboy/plugins"
)

// ID of the websocket plugin.
const ID = "websocket"

// Sentinal error patterns.
const (
	ListenFailed = "websocket: cannot listen on %s: %v"
)

// number of frames queued for a client before the client is considered too
// slow and is disconnected
const clientQueue = 4

const headerLen = 4

// Plugin describes the websocket renderer.
var Plugin = plugins.Descriptor{
	Kind:        plugins.Video,
	ID:          ID,
	DisplayName: "Websocket",
	Description: "serve the screen to websocket clients",
	Factory: func(ctx plugins.Context) (bus.Device, error) {
		var perm logger.Permission = logger.Allow
		if ctx.Env != nil {
			perm = ctx.Env
		}
		return NewServer(perm, ctx.Surface.Addr)
	},
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server implements the bus.VideoRenderer interface.
type Server struct {
	perm     logger.Permission
	listener net.Listener
	http     *http.Server

	crit    sync.Mutex
	clients map[*client]bool
	last    []byte
	hash    uint64
	skipped int
	closed  bool

	// the http server has finished
	done chan bool
}

// NewServer is the preferred method of initialisation for the Server type.
// The server starts listening on the address immediately.
func NewServer(perm logger.Permission, addr string) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, curated.Errorf(ListenFailed, addr, err)
	}

	srv := &Server{
		perm:     perm,
		listener: l,
		clients:  make(map[*client]bool),
		done:     make(chan bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.upgrade)
	srv.http = &http.Server{Handler: mux}

	go func() {
		err := srv.http.Serve(l)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log(srv.perm, "websocket", err)
		}
		srv.done <- true
	}()

	logger.Logf(srv.perm, "websocket", "serving on %s", l.Addr())

	return srv, nil
}

// Addr returns the address the server is listening on.
func (srv *Server) Addr() net.Addr {
	return srv.listener.Addr()
}

// Clients returns the number of connected clients.
func (srv *Server) Clients() int {
	srv.crit.Lock()
	defer srv.crit.Unlock()
	return len(srv.clients)
}

// Skipped returns the number of frames that were not sent because they were
// the same as the previous frame.
func (srv *Server) Skipped() int {
	srv.crit.Lock()
	defer srv.crit.Unlock()
	return srv.skipped
}

func (srv *Server) upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log(srv.perm, "websocket", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, clientQueue),
	}

	srv.crit.Lock()
	if srv.closed {
		srv.crit.Unlock()
		_ = conn.Close()
		return
	}
	srv.clients[c] = true
	if srv.last != nil {
		c.send <- srv.last
	}
	srv.crit.Unlock()

	logger.Logf(srv.perm, "websocket", "client connected from %s", r.RemoteAddr)

	go srv.writePump(c)
	go srv.readPump(c)
}

// the read pump only exists to notice when the client goes away
func (srv *Server) readPump(c *client) {
	defer srv.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (srv *Server) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			srv.unregister(c)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// unregister is safe to call more than once for the same client
func (srv *Server) unregister(c *client) {
	srv.crit.Lock()
	defer srv.crit.Unlock()
	if srv.clients[c] {
		delete(srv.clients, c)
		close(c.send)
	}
}

// Resize implements the bus.VideoRenderer interface.
func (srv *Server) Resize(_, _ int) error {
	srv.crit.Lock()
	defer srv.crit.Unlock()
	srv.last = nil
	srv.hash = 0
	return nil
}

// NewFrame implements the bus.VideoRenderer interface.
func (srv *Server) NewFrame(img *image.RGBA) error {
	b := img.Bounds()

	msg := make([]byte, headerLen, headerLen+b.Dx()*b.Dy()*4)
	binary.LittleEndian.PutUint16(msg[0:], uint16(b.Dx()))
	binary.LittleEndian.PutUint16(msg[2:], uint16(b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		o := img.PixOffset(b.Min.X, y)
		msg = append(msg, img.Pix[o:o+b.Dx()*4]...)
	}

	hash := xxhash.Sum64(msg)

	srv.crit.Lock()
	defer srv.crit.Unlock()

	if srv.last != nil && hash == srv.hash {
		srv.skipped++
		return nil
	}
	srv.last = msg
	srv.hash = hash

	for c := range srv.clients {
		select {
		case c.send <- msg:
		default:
			// client is not keeping up
			delete(srv.clients, c)
			close(c.send)
			logger.Logf(srv.perm, "websocket", "dropped slow client %s", c.conn.RemoteAddr())
		}
	}

	return nil
}

// Close implements the bus.Device interface. All clients are disconnected
// and the server stops listening.
func (srv *Server) Close() error {
	srv.crit.Lock()
	if srv.closed {
		srv.crit.Unlock()
		return nil
	}
	srv.closed = true
	for c := range srv.clients {
		delete(srv.clients, c)
		close(c.send)
	}
	srv.crit.Unlock()

	// Close() rather than Shutdown() because upgraded connections are not
	// tracked by the http server
	err := srv.http.Close()
	<-srv.done

	logger.Logf(srv.perm, "websocket", "stopped serving on %s", srv.listener.Addr())

	return err
}
