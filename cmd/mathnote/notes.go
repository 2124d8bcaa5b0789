package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/mmynk/mathnote/internal/document"
	"github.com/mmynk/mathnote/internal/models"
	"github.com/mmynk/mathnote/internal/symbols"
	"github.com/mmynk/mathnote/internal/view"
)

// runWithStore opens the store for one offline command and closes it after.
func runWithStore(cmd *cobra.Command, fn func(ctx context.Context, s *document.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, _, closeFn, err := getStore(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(ctx, s)
}

func groupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, s *document.Store) error {
				doc := s.Snapshot()
				out := cmd.OutOrStdout()

				if len(doc.Groups) == 0 {
					fmt.Fprintln(out, "No groups yet. Use 'mathnote add-group' to create one.")
					return nil
				}

				for _, g := range doc.Groups {
					fmt.Fprintf(out, "%s  %s %s\n",
						styles.ID.Render(g.ID),
						styles.Title.Render(g.Name),
						styles.Muted.Render(fmt.Sprintf("(%d notes)", len(g.Notes))),
					)
				}
				return nil
			})
		},
	}
}

func addGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-group [name]",
		Short: "Create a group",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, s *document.Store) error {
				group, err := s.AddGroup(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Created group %s %s", styles.ID.Render(group.ID), group.Name)
				return nil
			})
		},
	}
}

func renameGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename-group [group-id] [name]",
		Short: "Rename a group",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, s *document.Store) error {
				group, err := s.RenameGroup(ctx, args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Renamed %s to %s", styles.ID.Render(group.ID), group.Name)
				return nil
			})
		},
	}
}

func deleteGroupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-group [group-id]",
		Short: "Delete a group and all its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, s *document.Store) error {
				if err := s.DeleteGroup(ctx, args[0]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted group %s", styles.ID.Render(args[0]))
				return nil
			})
		},
	}
}

func addNoteCmd() *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "add-note [group-id]",
		Short: "Add a note at the top of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, s *document.Store) error {
				note, err := s.AddNote(ctx, args[0])
				if err != nil {
					return err
				}

				var upd document.NoteUpdate
				if cmd.Flags().Changed("title") {
					upd.Title = &title
				}
				if cmd.Flags().Changed("content") {
					upd.Content = &content
				}
				if !upd.Empty() {
					if note, _, err = s.UpdateNote(ctx, note.ID, upd); err != nil {
						return err
					}
				}

				printSuccess(cmd.OutOrStdout(), "Added note %s to %s", styles.ID.Render(note.ID), args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note content (markdown with $...$ math)")
	return cmd
}

func editCmd() *cobra.Command {
	var (
		title, content, timestamp string
		insert                    string
		at                        int
	)

	cmd := &cobra.Command{
		Use:   "edit [note-id]",
		Short: "Edit a note's title, content or timestamp",
		Long: `Edit a note. Only the fields given as flags change.

--insert places a math template from the symbol table (see 'mathnote symbols')
into the content at rune offset --at; a negative offset appends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, s *document.Store) error {
				noteID := args[0]
				flags := cmd.Flags()

				var upd document.NoteUpdate
				if flags.Changed("title") {
					upd.Title = &title
				}
				if flags.Changed("timestamp") {
					upd.Timestamp = &timestamp
				}

				if flags.Changed("content") || insert != "" {
					body := content
					if !flags.Changed("content") {
						existing, _, ok := s.Snapshot().FindNote(noteID)
						if !ok {
							return fmt.Errorf("%w: note %s", document.ErrNotFound, noteID)
						}
						body = existing.Content
					}
					if insert != "" {
						key, ok := symbols.Lookup(insert)
						if !ok {
							return fmt.Errorf("no symbol labelled %q", insert)
						}
						offset := at
						if offset < 0 {
							offset = utf8.RuneCountInString(body)
						}
						body = symbols.InsertAt(body, offset, key.Template)
					}
					upd.Content = &body
				}

				if upd.Empty() {
					return errors.New("nothing to change: pass --title, --content, --timestamp or --insert")
				}

				_, found, err := s.UpdateNote(ctx, noteID, upd)
				if err != nil {
					return err
				}
				if !found {
					printWarning(cmd.OutOrStdout(), "No note %s, nothing changed", noteID)
					return nil
				}
				printSuccess(cmd.OutOrStdout(), "Updated note %s", styles.ID.Render(noteID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "new timestamp (ISO-8601)")
	cmd.Flags().StringVar(&insert, "insert", "", "label of a math template to insert")
	cmd.Flags().IntVar(&at, "at", -1, "rune offset for --insert")
	return cmd
}

func deleteNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-note [note-id]",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, s *document.Store) error {
				if err := s.DeleteNote(ctx, args[0]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted note %s", styles.ID.Render(args[0]))
				return nil
			})
		},
	}
}

func showCmd() *cobra.Command {
	var groupID string

	cmd := &cobra.Command{
		Use:   "show [note-id]",
		Short: "Show a group's notes and one note in full",
		Long: `Show the notes of a group and the selected note in full.

Without arguments the first group and its first note are shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, s *document.Store) error {
				doc := s.Snapshot()

				sel := view.DefaultSelection(doc)
				if groupID != "" {
					sel = sel.SelectGroup(groupID)
				}
				if len(args) == 1 {
					_, owner, ok := doc.FindNote(args[0])
					if !ok {
						return fmt.Errorf("%w: note %s", document.ErrNotFound, args[0])
					}
					sel = sel.SelectGroup(owner).SelectNote(args[0])
				}

				printScreen(cmd, view.Render(doc, sel, ""))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&groupID, "group", "g", "", "group to show")
	return cmd
}

func searchCmd() *cobra.Command {
	var groupID string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find notes whose title or content contains the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			return runWithStore(cmd, func(ctx context.Context, s *document.Store) error {
				out := cmd.OutOrStdout()
				matches := 0

				for _, g := range s.Snapshot().Groups {
					if groupID != "" && g.ID != groupID {
						continue
					}
					for _, n := range view.FilterNotes(g.Notes, query) {
						matches++
						fmt.Fprintf(out, "%s  %s %s\n",
							styles.ID.Render(n.ID),
							noteTitle(n),
							styles.Muted.Render("in "+g.Name),
						)
					}
				}

				if matches == 0 {
					fmt.Fprintf(out, "No notes match %q.\n", query)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&groupID, "group", "g", "", "only search this group")
	return cmd
}

func symbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols [category]",
		Short: "List the math templates available to edit --insert",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			shown := 0

			for _, cat := range symbols.Categories() {
				if len(args) == 1 && !strings.EqualFold(cat.Name, args[0]) {
					continue
				}
				shown++
				fmt.Fprintln(out, styles.Title.Render(cat.Name))
				for _, k := range cat.Keys {
					fmt.Fprintf(out, "  %s %s %s\n",
						styles.Key.Render(k.Label),
						k.Template,
						styles.Muted.Render(k.Tooltip),
					)
				}
			}

			if shown == 0 {
				return fmt.Errorf("no symbol category %q", args[0])
			}
			return nil
		},
	}
}

// printScreen writes the group list, the active group's notes and the
// active note.
func printScreen(cmd *cobra.Command, screen view.Screen) {
	out := cmd.OutOrStdout()

	for _, g := range screen.Groups {
		name := g.Name
		if g.Active {
			name = styles.Active.Render("▸ " + name)
		} else {
			name = "  " + name
		}
		fmt.Fprintf(out, "%s %s\n", name, styles.Muted.Render(fmt.Sprintf("(%d)", g.NoteCount)))
	}

	if screen.ActiveGroup == nil {
		return
	}

	fmt.Fprintln(out)
	if len(screen.Notes) == 0 {
		fmt.Fprintln(out, styles.Muted.Render("No notes in "+screen.ActiveGroup.Name))
	}
	for _, n := range screen.Notes {
		marker := "  "
		if n.Active {
			marker = "▸ "
		}
		fmt.Fprintf(out, "%s%s  %s %s\n", marker, styles.ID.Render(n.ID), n.Title, styles.Muted.Render(n.Timestamp))
		if n.Preview != "" {
			fmt.Fprintf(out, "    %s\n", styles.Muted.Render(strings.ReplaceAll(n.Preview, "\n", " ")))
		}
	}

	if screen.ActiveNote == nil {
		return
	}

	note := *screen.ActiveNote
	body := styles.Title.Render(noteTitle(note)) + "\n" +
		styles.Muted.Render(note.Timestamp) + "\n\n" +
		note.Content
	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.Note.Render(body))
}

func noteTitle(n models.Note) string {
	if n.Title == "" {
		return view.UntitledNote
	}
	return n.Title
}
