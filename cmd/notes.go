package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/haierkeys/note-tree-service/internal/dto"
	"github.com/haierkeys/note-tree-service/internal/editor"
	"github.com/haierkeys/note-tree-service/internal/tree"
	"github.com/haierkeys/note-tree-service/pkg/client"

	"github.com/gookit/goutil/dump"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type notesFlags struct {
	server   string // 服务地址
	token    string // Bearer 令牌
	stateDir string // 编辑缓冲区和当前笔记指针所在目录
	timeout  time.Duration
}

var notesEnv = &notesFlags{}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func defaultStateDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".note-tree")
	}
	return ".note-tree"
}

func (f *notesFlags) client() *client.Client {
	return client.New(f.server, client.WithToken(f.token))
}

func (f *notesFlags) bufferPath() string {
	return filepath.Join(f.stateDir, "buffer.html")
}

// session 编辑缓冲区为文件，可以用任意外部编辑器修改后执行 notes save
func (f *notesFlags) session() *editor.Session {
	return editor.NewSession(
		f.client(),
		&editor.FileBuffer{Path: f.bufferPath()},
		&editor.FileCache{Path: filepath.Join(f.stateDir, "current.json")},
		bootstrapLogger,
	)
}

func (f *notesFlags) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), f.timeout)
}

func parseNoteID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid note id %q", s)
	}
	return id, nil
}

// parseParent root、null 和 0 表示根
func parseParent(s string) (*int64, error) {
	switch strings.ToLower(s) {
	case "", "root", "null", "0":
		return nil, nil
	}
	id, err := parseNoteID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func printNote(w io.Writer, n *dto.NoteDTO) {
	parent := "-"
	if n.ParentID != nil {
		parent = strconv.FormatInt(*n.ParentID, 10)
	}
	fmt.Fprintf(w, "%d\t%s\tparent=%s\n", n.ID, n.Name, parent)
}

func printNotes(w io.Writer, notes []*dto.NoteDTO) {
	for _, n := range notes {
		printNote(w, n)
	}
}

func printTree(w io.Writer, nodes []*tree.Node) {
	tree.Walk(nodes, func(n *tree.Node, depth int) {
		fmt.Fprintf(w, "%s%s (%d)\n", strings.Repeat("  ", depth), n.Name, n.ID)
	})
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Browse and edit notes on a running service",
}

var notesTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the note hierarchy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := notesEnv.requestContext()
		defer cancel()

		remote, _ := cmd.Flags().GetBool("remote")
		if remote {
			nodes, err := notesEnv.client().Tree(ctx)
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), nodes)
			return nil
		}

		notes, err := notesEnv.client().ListNotes(ctx)
		if err != nil {
			return err
		}
		printTree(cmd.OutOrStdout(), tree.Build(notes))
		return nil
	},
}

var notesLsCmd = &cobra.Command{
	Use:   "ls [parentId|root]",
	Short: "List the direct children of a note, or the roots",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := notesEnv.requestContext()
		defer cancel()

		if p, _ := cmd.Flags().GetString("path"); p != "" {
			notes, err := notesEnv.client().ChildrenByPath(ctx, p)
			if err != nil {
				return err
			}
			printNotes(cmd.OutOrStdout(), notes)
			return nil
		}

		var raw string
		if len(args) > 0 {
			raw = args[0]
		}
		parent, err := parseParent(raw)
		if err != nil {
			return err
		}
		notes, err := notesEnv.client().Children(ctx, parent)
		if err != nil {
			return err
		}
		printNotes(cmd.OutOrStdout(), notes)
		return nil
	},
}

var notesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a note with its breadcrumb",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := notesEnv.requestContext()
		defer cancel()

		c := notesEnv.client()
		note, err := c.GetNote(ctx, id)
		if err != nil {
			return err
		}
		if d, _ := cmd.Flags().GetBool("dump"); d {
			dump.P(note)
			return nil
		}

		crumbs, err := c.Path(ctx, id)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(crumbs))
		for _, b := range crumbs {
			names = append(names, b.Name)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s\n", strings.Join(names, " / "))
		fmt.Fprintf(w, "id: %d  updated: %s\n\n", note.ID, note.UpdatedAt.Format(time.RFC3339))
		fmt.Fprintln(w, note.Content)
		return nil
	},
}

var notesSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search notes by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := notesEnv.requestContext()
		defer cancel()
		notes, err := notesEnv.client().Search(ctx, args[0])
		if err != nil {
			return err
		}
		printNotes(cmd.OutOrStdout(), notes)
		return nil
	},
}

var notesNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawParent, _ := cmd.Flags().GetString("parent")
		parent, err := parseParent(rawParent)
		if err != nil {
			return err
		}
		content, _ := cmd.Flags().GetString("content")

		ctx, cancel := notesEnv.requestContext()
		defer cancel()
		note, err := notesEnv.client().CreateNote(ctx, args[0], parent, content)
		if err != nil {
			return err
		}
		printNote(cmd.OutOrStdout(), note)
		return nil
	},
}

var notesMvCmd = &cobra.Command{
	Use:   "mv <id> <newParentId|root>",
	Short: "Move a note under another note or to the root",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		parent, err := parseParent(args[1])
		if err != nil {
			return err
		}
		ctx, cancel := notesEnv.requestContext()
		defer cancel()

		note, err := notesEnv.client().MoveNote(ctx, id, parent)
		if err != nil {
			return err
		}
		printNote(cmd.OutOrStdout(), note)
		return nil
	},
}

var notesRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a note, keeping its content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := notesEnv.requestContext()
		defer cancel()
		note, err := notesEnv.client().RenameNote(ctx, id, args[1])
		if err != nil {
			return err
		}
		printNote(cmd.OutOrStdout(), note)
		return nil
	},
}

var notesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note and all its descendants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := notesEnv.requestContext()
		defer cancel()

		s := notesEnv.session()
		s.Restore(ctx)
		if !s.RemoveNote(ctx, id) {
			return errors.Errorf("delete note %d failed", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
		return nil
	},
}

var notesOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a note into the local editor buffer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := notesEnv.requestContext()
		defer cancel()

		s := notesEnv.session()
		// 先恢复之前打开的笔记，OpenNote 会保存它
		s.Restore(ctx)
		note := s.OpenNote(ctx, id)
		if note == nil {
			return errors.Errorf("open note %d failed", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s opened in %s\n", note.Name, notesEnv.bufferPath())
		return nil
	},
}

var notesSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the editor buffer to the open note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := notesEnv.requestContext()
		defer cancel()

		s := notesEnv.session()
		if s.Restore(ctx) == nil {
			return errors.New("no open note")
		}
		note := s.SaveNote(ctx)
		if note == nil {
			return errors.New("save failed")
		}
		printNote(cmd.OutOrStdout(), note)
		return nil
	},
}

var notesCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Save and close the open note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := notesEnv.requestContext()
		defer cancel()

		s := notesEnv.session()
		s.Restore(ctx)
		if !s.Close(ctx) {
			return errors.New("save on close failed, note is still open")
		}
		return nil
	},
}

func init() {
	pf := notesCmd.PersistentFlags()
	pf.StringVar(&notesEnv.server, "server", envOr("NOTE_TREE_SERVER", "http://127.0.0.1:9000"), "service address")
	pf.StringVar(&notesEnv.token, "token", envOr("NOTE_TREE_TOKEN", ""), "auth token")
	pf.StringVar(&notesEnv.stateDir, "state-dir", envOr("NOTE_TREE_STATE_DIR", defaultStateDir()), "editor buffer and pointer directory")
	pf.DurationVar(&notesEnv.timeout, "timeout", 30*time.Second, "request timeout")

	notesTreeCmd.Flags().Bool("remote", false, "use the tree built by the service")
	notesLsCmd.Flags().String("path", "", "list children at a name path like a/b")
	notesShowCmd.Flags().Bool("dump", false, "dump the raw note")
	notesNewCmd.Flags().String("parent", "", "parent note id, empty for root")
	notesNewCmd.Flags().String("content", "", "initial content")

	notesCmd.AddCommand(notesTreeCmd, notesLsCmd, notesShowCmd, notesSearchCmd, notesNewCmd,
		notesMvCmd, notesRenameCmd, notesRmCmd, notesOpenCmd, notesSaveCmd, notesCloseCmd)
	rootCmd.AddCommand(notesCmd)
}
