package options

import (
	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
	Title  string
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each dashboard.")
}

func AddTitleArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().StringVarP(&o.Title, "title", "t", "",
		"Select the dashboard by title instead of id.")
}
