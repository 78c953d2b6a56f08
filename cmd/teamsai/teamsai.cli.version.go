package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/itsatony/go-teamsai"
)

// versionConfig holds parsed version command configuration
type versionConfig struct {
	format string
}

// versionInfo is the version output in both formats
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsFile is the optional versions.yaml written by release builds.
type versionsFile struct {
	Project struct {
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

func newVersionCommand(a *app) *cobra.Command {
	cfg := &versionConfig{}
	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: CmdShortVersion,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := checkFormat(cfg.format); err != nil {
				return err
			}
			info := getVersionInfo(VersionsSearchDir)
			if cfg.format == OutputFormatJSON {
				return writeJSON(a.stdout, info)
			}
			fmt.Fprintf(a.stdout, VersionTextTemplate+FmtNewline,
				info.Version, info.Commit, info.Branch, info.BuildTime, info.GoVersion)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, FlagUsageFormat)
	return cmd
}

// getVersionInfo starts from the library version and runtime, then overlays
// the first versions.yaml found in dir or up to VersionsSearchDepth parents.
func getVersionInfo(dir string) *versionInfo {
	info := &versionInfo{
		Version:   teamsai.Version,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	if vf, ok := findVersionsFile(dir); ok {
		overlay(&info.Version, vf.Project.Version)
		overlay(&info.Commit, vf.Git.Commit)
		overlay(&info.Branch, vf.Git.Branch)
		overlay(&info.BuildTime, vf.Build.Time)
		overlay(&info.GoVersion, vf.Build.GoVersion)
	}
	return info
}

func findVersionsFile(dir string) (*versionsFile, bool) {
	for depth := 0; depth <= VersionsSearchDepth; depth++ {
		data, err := os.ReadFile(filepath.Join(dir, VersionsFileName))
		if err == nil {
			var vf versionsFile
			if yaml.Unmarshal(data, &vf) == nil {
				return &vf, true
			}
		}
		dir = filepath.Join(dir, "..")
	}
	return nil, false
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
