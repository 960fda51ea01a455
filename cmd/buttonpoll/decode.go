package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nuclight.org/buttonpoll/internal/codec"
	"nuclight.org/buttonpoll/internal/poll"
)

func decodeCommand() *cobra.Command {
	var slotLen int
	cmd := &cobra.Command{
		Use:   "decode <slot>...",
		Short: "Print the votes carried by a poll's button data",
		Long: "Print the votes carried by a poll's button data. Pass the callback data\n" +
			"of every button in keyboard order.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return decode(cmd.OutOrStdout(), args, slotLen)
		},
	}
	cmd.Flags().IntVar(&slotLen, "slot-len", codec.TelegramSlotLen, "button identifier length the poll was packed with")
	return cmd
}

func decode(w io.Writer, slots []string, slotLen int) error {
	payload := codec.Unpack(slots)
	switch payload.Kind {
	case codec.Absent:
		return poll.ErrNotPoll
	case codec.External:
		fmt.Fprintln(w, "votes are kept in the external store; look up the ID shown in the message")
		return nil
	}

	sets, err := codec.Deserialize(payload.Data)
	if err != nil {
		return err
	}
	state := poll.State(sets)
	if err := state.Validate(len(slots)); err != nil {
		return err
	}

	total := state.Total()
	fmt.Fprintf(w, "%d voters, %d of %d characters used\n", total, len(payload.Data), codec.Capacity(len(slots), slotLen))
	for i, voters := range state {
		ids := make([]string, len(voters))
		for j, v := range voters {
			ids[j] = fmt.Sprint(v)
		}
		fmt.Fprintf(w, "%2d %s %s\n", i+1, poll.ProgressBar(len(voters), total), strings.Join(ids, " "))
	}
	return nil
}
