// Command nwfs reads NetWare 286/386 disk images read-only: an
// interactive shell plus one-shot ls/get/cat/inspect forms, built on
// a Cobra command tree.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nwfs-go/nwfs/image"
	"github.com/nwfs-go/nwfs/logger"
	"github.com/nwfs-go/nwfs/partition"
	"github.com/nwfs-go/nwfs/shell"
	"github.com/nwfs-go/nwfs/vfs"
)

// Exit codes: 0 success, 1 usage error, 2 image/partition error, 3
// traversal/extraction error.
const (
	exitOK           = 0
	exitUsage        = 1
	exitImageOrMount = 2
	exitTraversal    = 3
)

var (
	imagePath    string
	versionFlag  string
	volumeName   string
	logPath      string
	showTrustees bool
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if ec, ok := err.(exitCodeError); ok {
			return ec.code
		}
		return exitUsage
	}
	return exitOK
}

// exitCodeError lets a subcommand signal a specific exit code through
// Cobra's normal error return without Cobra itself printing a second,
// redundant usage banner for mount/traversal failures.
type exitCodeError struct {
	code int
	err  error
}

func (e exitCodeError) Error() string { return e.err.Error() }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nwfs",
		Short:         "Read-only browser for NetWare 286/386 filesystem images",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&imagePath, "image", "", "disk image file (required)")
	root.PersistentFlags().StringVar(&versionFlag, "version", "auto", "NetWare filesystem version: auto, 286, or 386")
	root.PersistentFlags().StringVar(&volumeName, "volume", "SYS", "volume name (NWFS386 only)")
	root.PersistentFlags().StringVar(&logPath, "log", "", "write decoder trace logging to this file")
	root.MarkPersistentFlagRequired("image")

	root.AddCommand(newShellCmd(), newLsCmd(), newGetCmd(), newCatCmd(), newInspectCmd(), newStatCmd())
	return root
}

func mountVolume() (vfs.VolumeHandle, error) {
	logger.InitializeLogger(logPath != "", logPath)

	r, err := image.OpenRawFile(imagePath)
	if err != nil {
		return nil, exitCodeError{exitImageOrMount, err}
	}

	p, err := partition.Locate(r)
	if err != nil {
		return nil, exitCodeError{exitImageOrMount, err}
	}
	if err := checkVersionOverride(p.Version); err != nil {
		return nil, exitCodeError{exitImageOrMount, err}
	}

	vol, err := vfs.Mount(r, p, volumeName)
	if err != nil {
		return nil, exitCodeError{exitImageOrMount, err}
	}
	return vol, nil
}

func checkVersionOverride(detected partition.Version) error {
	switch strings.ToLower(versionFlag) {
	case "auto", "":
		return nil
	case "286":
		if detected != partition.NWFS286 {
			return fmt.Errorf("nwfs: --version 286 requested but partition is %s", detected)
		}
	case "386":
		if detected != partition.NWFS386 {
			return fmt.Errorf("nwfs: --version 386 requested but partition is %s", detected)
		}
	default:
		return fmt.Errorf("nwfs: unknown --version %q", versionFlag)
	}
	return nil
}

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive browsing session",
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, err := mountVolume()
			if err != nil {
				return err
			}
			sh := shell.New(vol, cmd.OutOrStdout())
			if err := sh.Run(cmd.InOrStdin()); err != nil {
				return exitCodeError{exitTraversal, err}
			}
			return nil
		},
	}
}

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory (one-shot form of the shell's dir command)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, err := mountVolume()
			if err != nil {
				return err
			}
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			_, node, err := vfs.ResolvePath(vol, path)
			if err != nil {
				return exitCodeError{exitTraversal, err}
			}
			if !node.IsDirectory() {
				return exitCodeError{exitTraversal, vfs.ErrNotADirectory}
			}
			children, err := vol.Children(node.ID)
			if err != nil {
				return exitCodeError{exitTraversal, err}
			}
			for _, c := range children {
				if c.Deleted {
					continue
				}
				kind := "file"
				if c.IsDirectory() {
					kind = "dir"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %-15s %10d %s\n", kind, c.Name, c.Size, c.Modified.String())
			}
			return nil
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Extract a file to the host filesystem under its own name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, err := mountVolume()
			if err != nil {
				return err
			}
			data, err := readFile(vol, args[0])
			if err != nil {
				return exitCodeError{exitTraversal, err}
			}
			base := baseName(args[0])
			if err := os.WriteFile(base, data, 0o644); err != nil {
				return exitCodeError{exitTraversal, err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d bytes copied\n", len(data))
			return nil
		},
	}
}

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file's content to standard output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, err := mountVolume()
			if err != nil {
				return err
			}
			data, err := readFile(vol, args[0])
			if err != nil {
				return exitCodeError{exitTraversal, err}
			}
			cmd.OutOrStdout().Write(data)
			return nil
		},
	}
}

func newStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Print one entry's metadata: type, size, timestamps, owner, attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, err := mountVolume()
			if err != nil {
				return err
			}
			_, node, err := vfs.ResolvePath(vol, args[0])
			if err != nil {
				return exitCodeError{exitTraversal, err}
			}
			kind := "file"
			if node.IsDirectory() {
				kind = "dir"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:     %s\n", node.Name)
			fmt.Fprintf(out, "type:     %s\n", kind)
			fmt.Fprintf(out, "size:     %d\n", node.Size)
			fmt.Fprintf(out, "modified: %s\n", node.Modified.String())
			fmt.Fprintf(out, "owner:    %s\n", node.Owner)
			fmt.Fprintf(out, "modifier: %s\n", node.Modifier)
			fmt.Fprintf(out, "attrs:    %s\n", node.Attrs)
			fmt.Fprintf(out, "deleted:  %t\n", node.Deleted)
			if showTrustees {
				if len(node.Trustees) == 0 {
					fmt.Fprintln(out, "trustees: (none)")
				} else {
					fmt.Fprintln(out, "trustees:")
					for _, t := range node.Trustees {
						fmt.Fprintf(out, "  %08X %s\n", t.ObjectID, t.Rights.String())
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTrustees, "showtrustees", false, "include the entry's trustee assignments (NWFS386 only)")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Dump the volume's structural metadata for diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, err := mountVolume()
			if err != nil {
				return err
			}
			if err := shell.Inspect(vol, cmd.OutOrStdout()); err != nil {
				return exitCodeError{exitTraversal, err}
			}
			return nil
		},
	}
}

func readFile(vol vfs.VolumeHandle, path string) ([]byte, error) {
	_, node, err := vfs.ResolvePath(vol, path)
	if err != nil {
		return nil, err
	}
	return vfs.ReadAll(vol, node)
}

func baseName(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
