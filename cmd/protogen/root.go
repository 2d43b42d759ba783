package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/protogenhq/protogen"
	"github.com/protogenhq/protogen/frontend"
	"github.com/protogenhq/protogen/spec"
)

// globalState carries everything the commands touch that would otherwise
// be process globals, so tests can run commands against an in-memory
// filesystem and captured output.
type globalState struct {
	fs     afero.Fs
	logger *logrus.Logger
	stdout io.Writer

	specPath string
	verbose  bool
}

func newRootCommand(gs *globalState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "protogen",
		Short: "Generate multi-package protobuf bindings",
		Long: "protogen builds the packages declared in a protogen config file. " +
			"Each build publishes a package spec that dependent packages bind " +
			"instead of regenerating the same types.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if gs.verbose {
				gs.logger.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&gs.specPath, "spec", "protogen.json",
		"path to the protogen config file")
	cmd.PersistentFlags().BoolVarP(&gs.verbose, "verbose", "v", false,
		"enable debug logging")
	cmd.AddCommand(newPackageCommand(gs), newAllCommand(gs))
	return cmd
}

func newBuilder(gs *globalState, dryRun bool) (*protogen.Builder, error) {
	s, err := spec.Load(gs.fs, gs.specPath)
	if err != nil {
		return nil, err
	}
	return &protogen.Builder{
		Spec:     s,
		Fs:       gs.fs,
		Frontend: &frontend.Protocompile{Accessor: frontend.FsAccessor(gs.fs)},
		Logger:   gs.logger,
		DryRun:   dryRun,
		Out:      gs.stdout,
	}, nil
}

func newPackageCommand(gs *globalState) *cobra.Command {
	var (
		name   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Build one declared package",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := newBuilder(gs, dryRun)
			if err != nil {
				return err
			}
			return b.BuildPackage(cmd.Context(), name)
		},
	}
	cmd.Flags().StringVar(&name, "package", "", "name of the package to build")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"print a diff of the package spec instead of writing artifacts")
	_ = cmd.MarkFlagRequired("package")
	return cmd
}

func newAllCommand(gs *globalState) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Build every declared package in dependency order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := newBuilder(gs, dryRun)
			if err != nil {
				return err
			}
			return b.BuildAll(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"print diffs of the package specs instead of writing artifacts")
	return cmd
}
