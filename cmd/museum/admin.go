package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/naveenspark/museum/pkg/client"
	"github.com/naveenspark/museum/pkg/domain"
)

var errAdminOnly = errors.New("this command needs an admin account")

func newAdminCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage exhibits and read visit stats (admins only)",
		Long: `Exhibits are read as JSON with the backend's field names, for example:

  {"name": "Urumi", "type": "sword", "description": "...",
   "image_url": "weapons/urumi.jpg", "audio_story_url": "weapons/urumi.mp3"}`,
	}
	cmd.AddCommand(
		newAdminSaveCmd(opts, false),
		newAdminSaveCmd(opts, true),
		newAdminDeleteCmd(opts),
		newAdminStatsCmd(opts),
	)
	return cmd
}

// openAdminEnv opens the environment and requires a signed-in admin.
func openAdminEnv(cmd *cobra.Command, opts *options) (*env, error) {
	e, err := openEnv(opts)
	if err != nil {
		return nil, err
	}
	st := e.sess.Restore(cmd.Context())
	switch {
	case !st.Authenticated:
		e.Close() //nolint:errcheck
		return nil, errNotLoggedIn
	case !st.Admin:
		e.Close() //nolint:errcheck
		return nil, errAdminOnly
	}
	return e, nil
}

func newAdminSaveCmd(opts *options, update bool) *cobra.Command {
	var file string
	use, short, args := "create <temples|weapons|fossils>", "Add an exhibit", cobra.ExactArgs(1)
	if update {
		use, short, args = "update <temples|weapons|fossils> <id>", "Replace an exhibit", cobra.ExactArgs(2)
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown gallery %q (want temples, weapons or fossils)", args[0])
			}
			id := 0
			if update {
				n, err := strconv.Atoi(args[1])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid exhibit id %q", args[1])
				}
				id = n
			}
			data, err := readPayload(cmd, file)
			if err != nil {
				return err
			}

			e, err := openAdminEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			saved, err := saveExhibit(cmd.Context(), e.api, kind, id, data)
			if err != nil {
				return err
			}
			verb := "created"
			if update {
				verb = "updated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s #%d %s\n", verb, kind, saved.ID, saved.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON exhibit file, - for stdin")
	return cmd
}

func readPayload(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read exhibit: %w", err)
	}
	return data, nil
}

// decodeStrict rejects unknown fields so a typo is not silently dropped.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse exhibit: %w", err)
	}
	return nil
}

// saveExhibit creates the exhibit when id is 0 and replaces it otherwise.
func saveExhibit(ctx context.Context, api *client.Client, kind domain.Kind, id int, data []byte) (domain.Exhibit, error) {
	switch kind {
	case domain.KindTemple:
		var in domain.TempleInput
		if err := decodeStrict(data, &in); err != nil {
			return domain.Exhibit{}, err
		}
		var (
			t   *domain.Temple
			err error
		)
		if id == 0 {
			t, err = api.CreateTemple(ctx, in)
		} else {
			t, err = api.UpdateTemple(ctx, id, in)
		}
		if err != nil {
			return domain.Exhibit{}, err
		}
		return domain.TempleExhibit(*t), nil

	case domain.KindWeapon:
		var in domain.WeaponInput
		if err := decodeStrict(data, &in); err != nil {
			return domain.Exhibit{}, err
		}
		var (
			w   *domain.Weapon
			err error
		)
		if id == 0 {
			w, err = api.CreateWeapon(ctx, in)
		} else {
			w, err = api.UpdateWeapon(ctx, id, in)
		}
		if err != nil {
			return domain.Exhibit{}, err
		}
		return domain.WeaponExhibit(*w), nil

	case domain.KindFossil:
		var in domain.FossilInput
		if err := decodeStrict(data, &in); err != nil {
			return domain.Exhibit{}, err
		}
		var (
			f   *domain.Fossil
			err error
		)
		if id == 0 {
			f, err = api.CreateFossil(ctx, in)
		} else {
			f, err = api.UpdateFossil(ctx, id, in)
		}
		if err != nil {
			return domain.Exhibit{}, err
		}
		return domain.FossilExhibit(*f), nil
	}
	return domain.Exhibit{}, fmt.Errorf("unknown gallery %q", kind)
}

func newAdminDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <temples|weapons|fossils> <id>",
		Short: "Remove an exhibit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := domain.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown gallery %q (want temples, weapons or fossils)", args[0])
			}
			id, err := strconv.Atoi(args[1])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid exhibit id %q", args[1])
			}
			e, err := openAdminEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			if err := e.api.DeleteExhibit(cmd.Context(), kind, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s #%d\n", kind, id)
			return nil
		},
	}
}

func newAdminStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show visit statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openAdminEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.Close() //nolint:errcheck

			s, err := e.api.VisitStats(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d visits, %d visitors, %.1f min average\n", s.TotalVisits, s.UniqueUsers, s.AverageVisitDuration)
			rooms := make([]string, 0, len(s.RoomStatistics))
			for r := range s.RoomStatistics {
				rooms = append(rooms, r)
			}
			sort.Strings(rooms)
			for _, r := range rooms {
				fmt.Fprintf(w, "  %-10s %d\n", r, s.RoomStatistics[r])
			}
			return nil
		},
	}
}
