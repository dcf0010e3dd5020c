package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <property>",
	Short: "Read a simulator property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		value, err := c.GetString(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <property> <value>",
	Short: "Write a simulator property",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		return c.Set(args[0], args[1])
	},
}

var stepCmd = &cobra.Command{
	Use:   "step <n>",
	Short: "Advance the simulation by n iterations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("step count must be an integer: %w", err)
		}

		c, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		return c.Iterate(steps)
	},
}

var holdCmd = &cobra.Command{
	Use:   "hold",
	Short: "Suspend the simulation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		return c.Hold()
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a suspended simulation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		return c.Resume()
	},
}
