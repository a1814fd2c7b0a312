// Package cli handles interactive command-line access to an automaton
// instance for debugging and manual testing.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nilcrux/ahokeep/internal/logger"
	"github.com/nilcrux/ahokeep/pkg/keywords"
)

// InputHandler reads commands from stdin and dispatches them against an
// Instance. Recognized commands are add, remove, find, suggest, info,
// dump, and flush; anything else is treated as a find query, matching
// the teacher's original "bare input means do the default operation"
// convention.
type InputHandler struct {
	inst         *keywords.Instance
	log          *log.Logger
	requestCount int
}

// NewInputHandler wires an InputHandler to inst. Its logger reports no
// timestamp, matching the bare prompt-and-response feel of an
// interactive shell, and inherits whatever level the caller has already
// configured globally.
func NewInputHandler(inst *keywords.Instance) *InputHandler {
	return &InputHandler{
		inst: inst,
		log:  logger.NewWithConfig("cli", log.GetLevel(), false, false, log.TextFormatter),
	}
}

// Start begins the read-eval-print loop. It continuously prompts for
// input, reads a line from stdin, and dispatches it to handleLine.
// The loop terminates when reading from stdin fails (EOF on Ctrl+D).
func (h *InputHandler) Start(ctx context.Context) error {
	h.log.Print("ahokeep CLI")
	h.log.Print("commands: add <kw> | remove <kw> | find <text> | suggest <prefix> | info | dump | flush (Ctrl+D to exit)")
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleLine(ctx, line)
	}
}

func (h *InputHandler) handleLine(ctx context.Context, line string) {
	h.requestCount++
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "add":
		h.add(ctx, arg)
	case "remove", "rm":
		h.remove(ctx, arg)
	case "suggest":
		h.suggest(ctx, arg)
	case "info":
		h.info(ctx)
	case "dump":
		h.dump(ctx)
	case "flush":
		h.flush(ctx)
	case "find":
		h.find(ctx, arg)
	default:
		// bare input with no recognized verb is treated as a find query
		h.find(ctx, line)
	}
}

func (h *InputHandler) add(ctx context.Context, keyword string) {
	n, err := h.inst.Add(ctx, keyword)
	if err != nil {
		h.log.Errorf("add %q: %v", keyword, err)
		return
	}
	h.log.Printf("added %q (%d keywords)", keyword, n)
}

func (h *InputHandler) remove(ctx context.Context, keyword string) {
	n, err := h.inst.Remove(ctx, keyword)
	if err != nil {
		h.log.Errorf("remove %q: %v", keyword, err)
		return
	}
	h.log.Printf("removed %q (%d keywords remain)", keyword, n)
}

func (h *InputHandler) find(ctx context.Context, text string) {
	matches, err := h.inst.Find(ctx, text)
	if err != nil {
		h.log.Errorf("find: %v", err)
		return
	}
	if len(matches) == 0 {
		h.log.Warnf("no matches in %q", text)
		return
	}
	h.log.Printf("%d match(es) in %q:", len(matches), text)
	for i, m := range matches {
		fmt.Printf("%2d. %s\n", i+1, m)
	}
}

func (h *InputHandler) suggest(ctx context.Context, query string) {
	hits, err := h.inst.Suggest(ctx, query)
	if err != nil {
		h.log.Errorf("suggest %q: %v", query, err)
		return
	}
	if len(hits) == 0 {
		h.log.Warnf("no suggestions for %q", query)
		return
	}
	h.log.Printf("%d suggestion(s) for %q:", len(hits), query)
	for i, s := range hits {
		fmt.Printf("%2d. %s\n", i+1, s)
	}
}

func (h *InputHandler) info(ctx context.Context) {
	info, err := h.inst.Info(ctx)
	if err != nil {
		h.log.Errorf("info: %v", err)
		return
	}
	h.log.Printf("keywords=%d nodes=%d", info.Keywords, info.Nodes)
}

func (h *InputHandler) dump(ctx context.Context) {
	d, err := h.inst.Dump(ctx)
	if err != nil {
		h.log.Errorf("dump: %v", err)
		return
	}
	fmt.Printf("keywords: %v\n", d.Keywords)
	fmt.Printf("prefixes: %v\n", d.Prefixes)
	fmt.Printf("suffixes: %v\n", d.Suffixes)
	for state, outs := range d.Outputs {
		fmt.Printf("  O(%s) = %v\n", state, outs)
	}
}

func (h *InputHandler) flush(ctx context.Context) {
	if err := h.inst.Flush(ctx); err != nil {
		h.log.Errorf("flush: %v", err)
		return
	}
	h.log.Print("flushed")
}
