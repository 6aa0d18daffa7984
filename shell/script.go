package shell

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/connectfour/game"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("c4_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// pushResult leaves the response text, or an ERROR string, on the stack.
func pushResult(L *lua.LState, event string, r *Response, err error) int {
	if err != nil {
		log.Err(err).Msg(event)
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func New(L *lua.LState) int {
	side := L.OptString(1, "")
	sc := getShell(L)
	cmd := &shellcmd{cmd: "new"}
	if side != "" {
		cmd.args = []string{side}
	}
	r, err := sc.newGame(cmd)
	return pushResult(L, "error-executing-new", r, err)
}

func Play(L *lua.LState) int {
	col := L.CheckInt(1)
	sc := getShell(L)
	r, err := sc.play(&shellcmd{
		cmd:  "play",
		args: []string{strconv.Itoa(col)},
	})
	return pushResult(L, "error-executing-play", r, err)
}

func AIPlay(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.aiplay(&shellcmd{cmd: "aiplay"})
	return pushResult(L, "error-executing-aiplay", r, err)
}

func Best(L *lua.LState) int {
	sc := getShell(L)
	if err := sc.checkGame(); err != nil {
		log.Err(err).Msg("error-executing-best")
		return 0
	}
	_, col, _, err := sc.game.Evaluate(context.Background(), sc.game.Solver().Plies())
	if err != nil {
		log.Err(err).Msg("error-executing-best")
		return 0
	}
	L.Push(lua.LNumber(col))
	return 1
}

func Show(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.show(&shellcmd{cmd: "show"})
	return pushResult(L, "error-executing-show", r, err)
}

func State(L *lua.LState) int {
	sc := getShell(L)
	if err := sc.checkGame(); err != nil {
		log.Err(err).Msg("error-executing-state")
		return 0
	}
	t := L.NewTable()
	t.RawSetString("moves", lua.LString(sc.game.Board().MoveString()))
	t.RawSetString("to_move", lua.LString(sc.game.PlayerOnTurn().String()))
	t.RawSetString("human", lua.LString(sc.humanSide.String()))
	t.RawSetString("over", lua.LBool(sc.game.Playing() == game.GameOver))
	t.RawSetString("result", lua.LString(sc.game.ResultText()))
	L.Push(t)
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("c4_shell", lsc)
	L.SetGlobal("c4_new", L.NewFunction(New))
	L.SetGlobal("c4_play", L.NewFunction(Play))
	L.SetGlobal("c4_aiplay", L.NewFunction(AIPlay))
	L.SetGlobal("c4_best", L.NewFunction(Best))
	L.SetGlobal("c4_show", L.NewFunction(Show))
	L.SetGlobal("c4_state", L.NewFunction(State))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
