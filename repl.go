package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/sidetone/audio"
	"github.com/mrdg/sidetone/control"
	"github.com/mrdg/sidetone/dub"
	"github.com/mrdg/sidetone/keyer"
)

type env struct {
	ctl      *keyer.Controller
	engine   *audio.Engine
	pots     *pots
	inbox    *control.Inbox
	ctrlChan int
	out      io.Writer
}

func (e *env) eval(input string) error {
	command, err := dub.Parse(input)
	if err != nil {
		return err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if len(command.Args) != cmd.arity {
			return fmt.Errorf("%s: wrong number of arguments: want %v, got %v (usage: %s)",
				cmd.name, cmd.arity, len(command.Args), cmd.usage)
		}
		if err := cmd.run(e, command.Args); err != nil {
			return fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return nil
	}
	return fmt.Errorf("unknown command: %s", name)
}

func repl(ctx context.Context, env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()
	if env.out == nil {
		env.out = os.Stdout
	}

	for ctx.Err() == nil {
		line, err := rl.Readline()
		if err == io.EOF || errors.Is(err, readline.ErrInterrupt) {
			return io.EOF
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if err := env.eval(line); err != nil {
			fmt.Println(err)
		}
	}
	return ctx.Err()
}
