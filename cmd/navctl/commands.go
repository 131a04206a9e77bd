package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"school-navigator/internal/config"
	"school-navigator/internal/database"
	"school-navigator/internal/dataset"
	"school-navigator/internal/importer"
	"school-navigator/internal/models"
	"school-navigator/internal/repository"
	"school-navigator/internal/service"
	"school-navigator/internal/store"
)

// cliSession is the actor recorded in the audit log for CLI changes
var cliSession = &models.Session{ID: "navctl", Role: models.RoleAdmin, Method: models.MethodPassword}

type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	cfg := config.LoadConfig()

	rootCmd := &cobra.Command{
		Use:           "navctl",
		Short:         "Offline import, export and schedule queries for the school navigator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("db-driver", cfg.Database.Driver, "Database driver (sqlite or mysql)")
	flags.String("db-path", cfg.Database.Path, "SQLite database path")
	flags.String("db-host", cfg.Database.Host, "MySQL host")
	flags.String("db-port", cfg.Database.Port, "MySQL port")
	flags.String("db-user", cfg.Database.User, "MySQL user")
	flags.String("db-password", cfg.Database.Password, "MySQL password")
	flags.String("db-name", cfg.Database.Database, "MySQL database")
	flags.String("storage-key", cfg.Storage.DatasetKey, "Key of the stored dataset")
	flags.String("timezone", cfg.Server.TimeZone, "Time zone used to decide today")

	a.v.SetEnvPrefix("SN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlags(flags)

	rootCmd.AddCommand(
		a.exportCmd(),
		a.importCmd(),
		a.validateCmd(),
		a.lessonsCmd(),
	)
	return rootCmd
}

// config returns the server configuration with flag and SN_ overrides applied
func (a *app) config() *config.Config {
	cfg := config.LoadConfig()
	cfg.Database.Driver = a.v.GetString("db-driver")
	cfg.Database.Path = a.v.GetString("db-path")
	cfg.Database.Host = a.v.GetString("db-host")
	cfg.Database.Port = a.v.GetString("db-port")
	cfg.Database.User = a.v.GetString("db-user")
	cfg.Database.Password = a.v.GetString("db-password")
	cfg.Database.Database = a.v.GetString("db-name")
	cfg.Storage.DatasetKey = a.v.GetString("storage-key")
	cfg.Server.TimeZone = a.v.GetString("timezone")
	// keep gorm quiet on the terminal
	cfg.Server.GinMode = "release"
	return cfg
}

// datasets opens the configured database and loads the stored dataset.
// The returned func closes the database and must be called when done.
func (a *app) datasets(ctx context.Context) (*service.DatasetService, func(), error) {
	cfg := a.config()
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
	st := store.New(repository.NewDocumentRepo(db), cfg.Storage.DatasetKey)
	svc := service.NewDatasetService(st, repository.NewAuditRepo(db), loc)
	svc.Init(ctx)
	return svc, closeDB, nil
}

func (a *app) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored dataset as JSON",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			svc, closeDB, err := a.datasets(c.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			data, err := svc.ExportJSON()
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = c.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import rooms, schedule, a workbook or a whole dataset",
	}

	add := func(use, short string, run func(ctx context.Context, svc *service.DatasetService, data []byte) (service.ImportResult, error)) {
		cmd.AddCommand(&cobra.Command{
			Use:   use + " <file>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				svc, closeDB, err := a.datasets(c.Context())
				if err != nil {
					return err
				}
				defer closeDB()
				result, err := run(c.Context(), svc, data)
				if err != nil {
					return describeError(err)
				}
				return printImportResult(c.OutOrStdout(), result)
			},
		})
	}

	add("rooms", "Merge rooms from a CSV file", func(ctx context.Context, svc *service.DatasetService, data []byte) (service.ImportResult, error) {
		rows, err := importer.ReadCSV(bytes.NewReader(data))
		if err != nil {
			return service.ImportResult{}, err
		}
		return svc.ImportRooms(ctx, cliSession, rows)
	})
	add("schedule", "Merge lessons from a CSV file", func(ctx context.Context, svc *service.DatasetService, data []byte) (service.ImportResult, error) {
		rows, err := importer.ReadCSV(bytes.NewReader(data))
		if err != nil {
			return service.ImportResult{}, err
		}
		return svc.ImportSchedule(ctx, cliSession, rows)
	})
	add("xlsx", "Merge rooms and schedule from an .xlsx workbook", func(ctx context.Context, svc *service.DatasetService, data []byte) (service.ImportResult, error) {
		wb, err := importer.ReadWorkbook(bytes.NewReader(data))
		if err != nil {
			return service.ImportResult{}, err
		}
		return svc.ImportWorkbook(ctx, cliSession, wb)
	})
	add("json", "Replace the dataset with a JSON document", func(ctx context.Context, svc *service.DatasetService, data []byte) (service.ImportResult, error) {
		return svc.ImportJSON(ctx, cliSession, data)
	})

	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a JSON dataset document without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			d, err := dataset.Decode(data)
			if err != nil {
				return describeError(err)
			}
			fmt.Fprintf(c.OutOrStdout(), "ok: %d floors, %d rooms, %d lessons\n", len(d.Floors), len(d.Rooms), len(d.Schedule))
			return nil
		},
	}
}

func (a *app) lessonsCmd() *cobra.Command {
	var day, query string
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List the lessons of a day",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			svc, closeDB, err := a.datasets(c.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			var lessons []models.LessonView
			if day == "" {
				lessons = svc.TodayLessons(query)
			} else {
				d := models.Day(day)
				if !d.Valid() {
					return fmt.Errorf("invalid day %q, want one of Mon Tue Wed Thu Fri Sat Sun", day)
				}
				lessons = svc.LessonsFor(d, query)
			}
			return printLessons(c.OutOrStdout(), lessons)
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Day code, today when empty")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by subject, teacher or room")
	return cmd
}

func printImportResult(w io.Writer, r service.ImportResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "version\t%d\n", r.Version)
	fmt.Fprintf(tw, "rooms\t%d\n", r.Rooms)
	fmt.Fprintf(tw, "lessons\t%d\n", r.Lessons)
	if len(r.ReplacedRooms) > 0 {
		fmt.Fprintf(tw, "replaced rooms\t%s\n", strings.Join(r.ReplacedRooms, ", "))
	}
	if r.ReplacedLessons > 0 {
		fmt.Fprintf(tw, "replaced lessons\t%d\n", r.ReplacedLessons)
	}
	if r.ScheduleSkipped {
		fmt.Fprintln(tw, "schedule\tskipped (no second sheet)")
	}
	return tw.Flush()
}

func printLessons(w io.Writer, lessons []models.LessonView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSUBJECT\tROOM\tFLOOR\tTEACHER")
	for _, l := range lessons {
		floor := l.FloorID
		if !l.RoomFound {
			floor = "room not found"
		}
		fmt.Fprintf(tw, "%s-%s\t%s\t%s\t%s\t%s\n", l.TimeStart, l.TimeEnd, l.Subject, l.RoomID, floor, l.Teacher)
	}
	return tw.Flush()
}

// describeError expands validation errors into one line per field
func describeError(err error) error {
	var verr *dataset.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	fields := make([]string, 0, len(verr.FieldErrors))
	for f := range verr.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed:")
	for _, f := range fields {
		fmt.Fprintf(&b, "\n  %s: %s", f, verr.FieldErrors[f])
	}
	return errors.New(b.String())
}
