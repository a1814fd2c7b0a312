package ipc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/nilcrux/ahokeep/pkg/keywords"
)

// Server answers Requests read from an io.Reader (normally stdin) with
// Responses written to an io.Writer (normally stdout), one at a time,
// synchronously. This is the teacher's server.Server loop shape minus
// dictionary/config management, which has no analog here.
type Server struct {
	inst    *keywords.Instance
	decoder *msgpack.Decoder
	out     io.Writer

	writeMutex sync.Mutex
}

// NewServer returns a Server reading Requests from in and writing
// Responses to out.
func NewServer(inst *keywords.Instance, in io.Reader, out io.Writer) *Server {
	return &Server{
		inst:    inst,
		decoder: msgpack.NewDecoder(in),
		out:     out,
	}
}

// NewStdioServer is NewServer wired to os.Stdin/os.Stdout.
func NewStdioServer(inst *keywords.Instance) *Server {
	return NewServer(inst, os.Stdin, os.Stdout)
}

// Start processes requests until the input stream closes.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting MessagePack ipc server")
	for {
		if err := s.processOne(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("client disconnected")
				return nil
			}
			log.Errorf("ipc: %v", err)
		}
	}
}

func (s *Server) processOne(ctx context.Context) error {
	var req Request
	if err := s.decoder.Decode(&req); err != nil {
		return err
	}

	start := time.Now()
	resp := s.dispatch(ctx, req)
	resp.TimeTaken = time.Since(start).Microseconds()

	return s.send(resp)
}

func (s *Server) dispatch(ctx context.Context, req Request) Response {
	switch req.Op {
	case "add":
		n, err := s.inst.Add(ctx, req.Keyword)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return Response{ID: req.ID, Status: "ok", Count: n}

	case "remove":
		n, err := s.inst.Remove(ctx, req.Keyword)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return Response{ID: req.ID, Status: "ok", Count: n}

	case "find":
		matches, err := s.inst.Find(ctx, req.Text)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return Response{ID: req.ID, Status: "ok", Matches: matches}

	case "suggest":
		hits, err := s.inst.Suggest(ctx, req.Query)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return Response{ID: req.ID, Status: "ok", Keywords: hits}

	case "info":
		info, err := s.inst.Info(ctx)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return Response{ID: req.ID, Status: "ok", Info: &Info{Keywords: info.Keywords, Nodes: info.Nodes}}

	case "flush":
		if err := s.inst.Flush(ctx); err != nil {
			return errorResponse(req.ID, err)
		}
		return Response{ID: req.ID, Status: "ok"}

	default:
		return Response{ID: req.ID, Status: "error", Error: fmt.Sprintf("unknown op: %s", req.Op)}
	}
}

func errorResponse(id string, err error) Response {
	return Response{ID: id, Status: "error", Error: err.Error()}
}

// send encodes and writes resp atomically.
func (s *Server) send(resp Response) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(resp); err != nil {
		return fmt.Errorf("ipc: encoding response: %w", err)
	}
	if _, err := s.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("ipc: writing response: %w", err)
	}
	if f, ok := s.out.(*os.File); ok {
		f.Sync()
	}
	return nil
}
