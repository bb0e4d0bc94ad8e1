package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/admin"
	"github.com/Zachkp/portfolio/internal/client"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/view"
)

// columns describes how a collection prints as a table.
type columns[T any] struct {
	header []string
	row    func(T) []string
	id     func(T) int64
	slug   func(T) string
}

var projectColumns = columns[content.Project]{
	header: []string{"ID", "SLUG", "TITLE", "YEAR"},
	row: func(p content.Project) []string {
		return []string{strconv.FormatInt(p.ID, 10), p.Slug, p.Title, p.Year}
	},
	id:   func(p content.Project) int64 { return p.ID },
	slug: func(p content.Project) string { return p.Slug },
}

var blogColumns = columns[content.BlogPost]{
	header: []string{"ID", "SLUG", "TITLE", "CATEGORY", "DATE"},
	row: func(b content.BlogPost) []string {
		return []string{strconv.FormatInt(b.ID, 10), b.Slug, b.Title, b.Category, b.Date}
	},
	id:   func(b content.BlogPost) int64 { return b.ID },
	slug: func(b content.BlogPost) string { return b.Slug },
}

var educationColumns = columns[content.Education]{
	header: []string{"ID", "SLUG", "DEGREE", "INSTITUTION", "PERIOD"},
	row: func(e content.Education) []string {
		return []string{strconv.FormatInt(e.ID, 10), e.Slug, e.Degree, e.Institution, e.Period()}
	},
	id:   func(e content.Education) int64 { return e.ID },
	slug: func(e content.Education) string { return e.Slug },
}

// collectionCmd builds the list/create/edit/delete tree for one collection.
// Every mutation goes through admin.Controller, as the web dashboard does.
func collectionCmd[T, D any](a *app, name, short string, shape admin.Shape[T, D], cols columns[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
	}

	open := func(cmd *cobra.Command, yes bool) (*admin.Controller[T, D], *client.Resource[T], error) {
		c, err := a.connect()
		if err != nil {
			return nil, nil, err
		}
		res := client.NewResource[T](c, name)
		in := bufio.NewReader(cmd.InOrStdin())
		confirm := admin.ConfirmFunc(func(prompt string) bool {
			if yes {
				return true
			}
			return ask(in, cmd.OutOrStdout(), prompt)
		})
		alert := admin.AlertFunc(func(msg string) {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		})
		return admin.New(res, shape, confirm, alert), res, nil
	}

	var (
		asJSON bool
		limit  int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every " + shape.Noun,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := open(cmd, false)
			if err != nil {
				return err
			}
			st := ctrl.Refresh(cmd.Context())
			if st.Phase == view.PhaseError {
				return explain(st.Err)
			}
			items := st.Items
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			return printTable(cmd.OutOrStdout(), cols, items)
		},
	}
	listCmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	listCmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many rows")

	var (
		createFile string
		createSets []string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + shape.Noun,
		Example: fmt.Sprintf("  portfolioctl %s create --file draft.yaml\n  portfolioctl %s create --set slug=my-entry --set title=\"My entry\"",
			name, name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, err := open(cmd, false)
			if err != nil {
				return err
			}
			ctrl.BeginCreate()
			fields := ctrl.Fields()
			if err := applyFields(&fields, createFile, createSets); err != nil {
				return err
			}
			ctrl.Set(fields)
			if err := ctrl.Save(cmd.Context()); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", shape.Noun)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "YAML file with the fields to set")
	createCmd.Flags().StringArrayVar(&createSets, "set", nil, "Set a field (key=value), repeatable")

	var (
		editFile string
		editSets []string
	)
	editCmd := &cobra.Command{
		Use:   "edit <slug>",
		Short: "Edit a " + shape.Noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, res, err := open(cmd, false)
			if err != nil {
				return err
			}
			item, err := res.BySlug(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			ctrl.BeginEdit(item)
			fields := ctrl.Fields()
			if err := applyFields(&fields, editFile, editSets); err != nil {
				return err
			}
			ctrl.Set(fields)
			if err := ctrl.Save(cmd.Context()); err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", shape.Noun, cols.slug(item))
			return nil
		},
	}
	editCmd.Flags().StringVarP(&editFile, "file", "f", "", "YAML file with the fields to change")
	editCmd.Flags().StringArrayVar(&editSets, "set", nil, "Set a field (key=value), repeatable")

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id|slug>",
		Short: "Delete a " + shape.Noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, res, err := open(cmd, yes)
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				item, lookupErr := res.BySlug(cmd.Context(), args[0])
				if lookupErr != nil {
					return explain(lookupErr)
				}
				id = cols.id(item)
			}

			deleted, err := ctrl.Remove(cmd.Context(), id)
			if err != nil {
				return explain(err)
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", shape.Noun, id)
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	cmd.AddCommand(listCmd, createCmd, editCmd, deleteCmd)
	return cmd
}

func printTable[T any](w io.Writer, cols columns[T], items []T) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No entries")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols.header, "\t"))
	for _, item := range items {
		fmt.Fprintln(tw, strings.Join(cols.row(item), "\t"))
	}
	return tw.Flush()
}

// applyFields overlays a YAML file and then key=value pairs onto a draft.
// Unknown keys are rejected so typos do not silently vanish.
func applyFields[D any](fields *D, file string, sets []string) error {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if err := decodeStrict(data, fields); err != nil {
			return fmt.Errorf("invalid %s: %w", file, err)
		}
	}
	if len(sets) == 0 {
		return nil
	}

	text := textKeys(*fields)
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		key = strings.TrimSpace(key)
		val := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
		if value == "" || text[key] {
			val.Tag = "!!str"
			val.Style = yaml.DoubleQuotedStyle
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			val,
		)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := decodeStrict(data, fields); err != nil {
		return fmt.Errorf("invalid --set: %w", err)
	}
	return nil
}

// textKeys lists the yaml keys of d's string fields. --set values for them are
// taken literally, so "null" or "yes" stay text.
func textKeys(d any) map[string]bool {
	keys := map[string]bool{}
	t := reflect.TypeOf(d)
	if t.Kind() != reflect.Struct {
		return keys
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			continue
		}
		if f.Type.Kind() == reflect.String {
			keys[name] = true
		}
	}
	return keys
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// ask prints prompt and reports whether the answer starts with y.
func ask(in *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, _ := in.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
