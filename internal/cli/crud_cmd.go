package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/store"
	"github.com/alexanderramin/chantier/internal/transport"
	"github.com/spf13/cobra"
)

// entityCmd describes the command group generated for one resource.
type entityCmd[T domain.Entity] struct {
	use   string
	short string
	store func(*App) *store.Store[T]

	// required lists the fields add refuses to send without.
	required []string
	readOnly bool

	// label names a record in confirmations; nil prints the id only.
	label func(T) string
	// render formats a collection for list, and a record for show when
	// detail is nil.
	render func([]T) string
	// list replaces the default refresh-then-render listing.
	list func(ctx context.Context, app *App, parentID domain.ID) (string, error)
	// detail renders show's output from the fetched record.
	detail func(ctx context.Context, app *App, item T) (string, error)
}

func newEntityCmd[T domain.Entity](app *App, def entityCmd[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   def.use,
		Short: def.short,
	}

	cmd.AddCommand(newEntityListCmd(app, def), newEntityShowCmd(app, def))
	if !def.readOnly {
		cmd.AddCommand(
			newEntityAddCmd(app, def),
			newEntityUpdateCmd(app, def),
			newEntityRemoveCmd(app, def),
		)
	}
	return cmd
}

func newEntityListCmd[T domain.Entity](app *App, def entityCmd[T]) *cobra.Command {
	var parentID string
	parent := def.store(app).Resource().Parent

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %ss", def.use),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stop := app.busy(cmd, fmt.Sprintf("Loading %ss...", def.use))
			defer stop()
			if def.list != nil {
				out, err := def.list(ctx, app, domain.ID(parentID))
				stop()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}

			s := def.store(app)
			if parentID != "" {
				s = s.ForParent(domain.ID(parentID))
			}
			err := s.Refresh(ctx)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), def.render(s.Items()))
			return nil
		},
	}

	if parent != "" {
		cmd.Flags().StringVar(&parentID, parent, "", fmt.Sprintf("Only %ss of this %s ID", def.use, parent))
	}
	return cmd
}

func newEntityShowCmd[T domain.Entity](app *App, def entityCmd[T]) *cobra.Command {
	return &cobra.Command{
		Use:     "show ID",
		Aliases: []string{"inspect"},
		Short:   fmt.Sprintf("Show a %s", def.use),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stop := app.busy(cmd, fmt.Sprintf("Loading %s %s...", def.use, args[0]))
			defer stop()
			item, err := def.store(app).Fetch(ctx, domain.ID(args[0]))
			if err != nil {
				return err
			}

			out := ""
			if def.detail != nil {
				out, err = def.detail(ctx, app, item)
				if err != nil {
					return err
				}
			} else {
				out = def.render([]T{item})
			}
			stop()
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newEntityAddCmd[T domain.Entity](app *App, def entityCmd[T]) *cobra.Command {
	var fields fieldsFlag
	var parentID string
	parent := def.store(app).Resource().Parent

	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Create a %s", def.use),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fields == nil {
				fields = fieldsFlag{}
			}
			if parentID != "" {
				fields[parent+"_id"] = parentIDValue(parentID)
			}
			var missing []string
			for _, k := range def.required {
				if _, ok := fields[k]; !ok {
					missing = append(missing, k)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
			}

			rec, err := def.store(app).Create(cmd.Context(), map[string]any(fields))
			if err != nil {
				return withFieldErrors(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", def.use, describe(def, rec))
			return nil
		},
	}

	cmd.Flags().Var(&fields, "set", "Field to send as key=value (repeatable)")
	if parent != "" {
		cmd.Flags().StringVar(&parentID, parent, "", fmt.Sprintf("Parent %s ID", parent))
	}
	return cmd
}

func newEntityUpdateCmd[T domain.Entity](app *App, def entityCmd[T]) *cobra.Command {
	var fields fieldsFlag

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: fmt.Sprintf("Update a %s", def.use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(fields) == 0 {
				return fmt.Errorf("nothing to update: pass at least one --set key=value")
			}
			rec, err := def.store(app).Update(cmd.Context(), domain.ID(args[0]), map[string]any(fields))
			if err != nil {
				return withFieldErrors(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", def.use, describe(def, rec))
			return nil
		},
	}

	cmd.Flags().Var(&fields, "set", "Field to change as key=value (repeatable)")
	return cmd
}

func newEntityRemoveCmd[T domain.Entity](app *App, def entityCmd[T]) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Remove a %s", def.use),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ID(args[0])
			if !yes && app.interactive() {
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Remove %s %s?", def.use, id), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := def.store(app).Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", def.use, id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func describe[T domain.Entity](def entityCmd[T], rec T) string {
	if def.label == nil {
		return fmt.Sprintf("[%s]", rec.EntityID())
	}
	return fmt.Sprintf("%s [%s]", def.label(rec), rec.EntityID())
}

// parentIDValue sends canonical integer ids as exact JSON numbers,
// matching what the backend emits for foreign keys.
func parentIDValue(id string) any {
	return domain.ID(id)
}

// withFieldErrors appends the per-field messages of a rejected write, as
// returned by the backend's validation layer: {"name": ["..."]}.
func withFieldErrors(err error) error {
	var te *transport.Error
	if !errors.As(err, &te) || te.Status != http.StatusBadRequest {
		return err
	}
	var parts []string
	for _, field := range slices.Sorted(maps.Keys(te.Payload)) {
		msgs, ok := te.Payload[field].([]any)
		if !ok || len(msgs) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", field, msgs[0]))
	}
	if len(parts) == 0 {
		return err
	}
	return fmt.Errorf("%w (%s)", err, strings.Join(parts, "; "))
}
