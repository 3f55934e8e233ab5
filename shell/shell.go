// Package shell implements the interactive REPL that sits on top of
// vfs.VolumeHandle: dir, cd, get, cat, exit. It reads one command at a
// time rather than leaning on a line-editing library.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nwfs-go/nwfs/vfs"
)

// Shell is an interactive browsing session over a single mounted
// volume.
type Shell struct {
	vol VolumeHandle
	cwd string // current path, "/"-rooted, as typed by the user

	out io.Writer
}

// VolumeHandle is an alias of vfs.VolumeHandle, so callers can pass
// either a real mounted volume or a test double.
type VolumeHandle = vfs.VolumeHandle

// New returns a shell rooted at vol's top-level directory.
func New(vol VolumeHandle, out io.Writer) *Shell {
	return &Shell{vol: vol, cwd: "/", out: out}
}

// Run reads commands from in until EOF or "exit"/"quit".
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(s.out, "%s:%s> ", s.vol.Name(), s.cwd)
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "exit", "quit":
			return nil
		case "cd", "chdir":
			s.cmdCd(fields)
		case "dir", "ls":
			s.cmdDir()
		case "get":
			s.cmdGet(fields)
		case "cat", "type":
			s.cmdCat(fields)
		default:
			fmt.Fprintln(s.out, "unrecognized command")
		}
	}
}

func (s *Shell) resolve(path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = strings.TrimSuffix(s.cwd, "/") + "/" + path
	}
	return path, nil
}

func (s *Shell) cmdCd(fields []string) {
	if len(fields) != 2 {
		fmt.Fprintln(s.out, "usage: cd directory")
		return
	}
	dest := fields[1]
	if dest == ".." {
		if s.cwd != "/" {
			s.cwd = parentPath(s.cwd)
		}
		return
	}
	path, _ := s.resolve(dest)
	_, node, err := vfs.ResolvePath(s.vol, path)
	if err != nil {
		fmt.Fprintln(s.out, "directory not found")
		return
	}
	if !node.IsDirectory() {
		fmt.Fprintln(s.out, "not a directory")
		return
	}
	s.cwd = normalizePath(path)
}

func parentPath(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	idx := strings.LastIndexByte(trimmed, '/')
	if idx <= 0 {
		return "/"
	}
	return trimmed[:idx]
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

func (s *Shell) cmdDir() {
	_, node, err := vfs.ResolvePath(s.vol, s.cwd)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	children, err := s.vol.Children(node.ID)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	p := message.NewPrinter(language.English)
	fmt.Fprintln(s.out, "<type> ID       Name            Attr                   Size         Last Modified        Modifier")
	for _, c := range children {
		if c.Deleted {
			continue
		}
		kind := "<file>"
		if c.IsDirectory() {
			kind = "<dir> "
		}
		size := p.Sprintf("%d", c.Size)
		fmt.Fprintf(s.out, "%s %-8s %-15s %-22s %-12s %-20s %s\n",
			kind, formatID(c.ID), c.Name, c.Attrs, size, c.Modified.String(), c.Modifier)
	}
}

func (s *Shell) cmdGet(fields []string) {
	if len(fields) != 2 {
		fmt.Fprintln(s.out, "usage: get file")
		return
	}
	data, err := s.readNamed(fields[1])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	if err := os.WriteFile(fields[1], data, 0o644); err != nil {
		fmt.Fprintln(s.out, "error:", err)
		return
	}
	fmt.Fprintf(s.out, "%d bytes copied\n", len(data))
}

func (s *Shell) cmdCat(fields []string) {
	if len(fields) != 2 {
		fmt.Fprintln(s.out, "usage: cat file")
		return
	}
	data, err := s.readNamed(fields[1])
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.out.Write(data)
	fmt.Fprintln(s.out)
}

func (s *Shell) readNamed(name string) ([]byte, error) {
	path, _ := s.resolve(name)
	_, node, err := vfs.ResolvePath(s.vol, path)
	if err != nil {
		return nil, err
	}
	return vfs.ReadAll(s.vol, node)
}

// formatID renders a numeric entry ID as lowercase hex, no leading
// zero-padding beyond width.
func formatID(id uint32) string {
	return strconv.FormatUint(uint64(id), 16)
}
