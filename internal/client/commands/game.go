package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"racingkings/internal/client/api"
	"racingkings/internal/client/display"
)

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new [custom]",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Make a move",
		Usage:       "move <from> <to>  (e.g. move c1 b3)",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll for game updates",
		Usage:       "poll",
		Handler:     pollHandler,
	})
}

func newGameHandler(s Session, args []string) error {
	c := s.GetClient().(*api.Client)
	req := &api.CreateGameRequest{}

	// "new custom" prompts for a piece layout instead of the default
	if len(args) > 0 && (args[0] == "custom" || args[0] == "c") {
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println(display.Cyan + "Enter placements as <piece> <square>, e.g. 'wk a1'." + display.Reset)
		fmt.Println(display.Cyan + "Empty line finishes. Each side needs exactly one king." + display.Reset)
		for {
			fmt.Print(display.Yellow + "Placement: " + display.Reset)
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				break
			}
			parts := strings.Fields(line)
			if len(parts) != 2 {
				fmt.Printf("%sExpected two fields, e.g. 'wk a1'%s\n", display.Red, display.Reset)
				continue
			}
			req.Layout = append(req.Layout, api.PlacementRequest{
				Piece:  parts[0],
				Square: parts[1],
			})
		}
	}

	resp, err := c.CreateGame(req)
	if err != nil {
		return err
	}

	s.SetCurrentGame(resp.GameID)
	s.SetLastMoveCount(len(resp.Moves))
	s.SetGameState(resp)

	fmt.Printf("%sGame created: %s%s\n", display.Green, resp.GameID, display.Reset)
	fmt.Printf("%sCurrent game set to: %s%s\n", display.Cyan, resp.GameID, display.Reset)

	return nil
}

func joinGameHandler(s Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	gameID := args[0]
	c := s.GetClient().(*api.Client)

	// Verify the game exists
	resp, err := c.GetGame(gameID)
	if err != nil {
		return err
	}

	s.SetCurrentGame(gameID)
	s.SetLastMoveCount(len(resp.Moves))
	s.SetGameState(resp)

	fmt.Printf("%sJoined game: %s%s\n", display.Green, gameID, display.Reset)
	fmt.Printf("Turn: %s | Outcome: %s | Moves: %d\n", resp.Turn, resp.Outcome, len(resp.Moves))

	return nil
}

func moveHandler(s Session, args []string) error {
	if len(args) < 2 {
		// Allow "move c1b3" as a shorthand
		if len(args) == 1 && len(args[0]) == 4 {
			args = []string{args[0][:2], args[0][2:]}
		} else {
			return fmt.Errorf("usage: move <from> <to>")
		}
	}

	gameID := s.GetCurrentGame()
	if gameID == "" {
		return fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}

	c := s.GetClient().(*api.Client)

	resp, err := c.MakeMove(gameID, args[0], args[1])
	if err != nil {
		return err
	}

	s.SetLastMoveCount(len(resp.Moves))
	s.SetGameState(resp)
	fmt.Printf("%sMove accepted%s\n", display.Green, display.Reset)

	if resp.Outcome != "unfinished" {
		fmt.Printf("%sGame over: %s%s\n", display.Magenta, display.ColorForOutcome(resp.Outcome), display.Reset)
	}

	return nil
}

func showBoardHandler(s Session, args []string) error {
	gameID := s.GetCurrentGame()
	if gameID == "" {
		return fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}

	c := s.GetClient().(*api.Client)

	game, err := c.GetGame(gameID)
	if err != nil {
		return err
	}

	board, err := c.GetBoard(gameID)
	if err != nil {
		return err
	}

	s.SetLastMoveCount(len(game.Moves))
	s.SetGameState(game)

	fmt.Println()
	display.RenderBoard(board.Board)

	fmt.Printf("\nTurn: %s | Outcome: %s | Moves: %d\n",
		display.ColorForTurn(game.Turn), display.ColorForOutcome(game.Outcome), len(game.Moves))

	if len(game.Moves) > 0 {
		fmt.Printf("\nHistory: ")
		for i, move := range game.Moves {
			if i > 0 {
				fmt.Print(" ")
			}
			if i%2 == 0 {
				fmt.Printf("%d.%s", (i/2)+1, move)
			} else {
				fmt.Printf(" %s", move)
			}
		}
		fmt.Println()
	}

	if game.LastMove != nil {
		color := "White"
		if game.LastMove.PlayerColor == "b" {
			color = "Black"
		}
		fmt.Printf("Last move: %s-%s by %s\n", game.LastMove.From, game.LastMove.To, color)
	}

	return nil
}

func gameStateHandler(s Session, args []string) error {
	gameID := s.GetCurrentGame()
	if gameID == "" {
		return fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}

	c := s.GetClient().(*api.Client)
	resp, err := c.GetGame(gameID)
	if err != nil {
		return err
	}

	s.SetLastMoveCount(len(resp.Moves))

	fmt.Printf("%sGame State:%s\n", display.Cyan, display.Reset)
	display.PrettyPrintJSON(resp)

	return nil
}

func deleteGameHandler(s Session, args []string) error {
	gameID := s.GetCurrentGame()
	if len(args) > 0 {
		gameID = args[0]
	}

	if gameID == "" {
		return fmt.Errorf("specify game ID or set current game")
	}

	c := s.GetClient().(*api.Client)
	if err := c.DeleteGame(gameID); err != nil {
		return err
	}

	if gameID == s.GetCurrentGame() {
		s.SetCurrentGame("")
		s.SetLastMoveCount(0)
	}

	fmt.Printf("%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func pollHandler(s Session, args []string) error {
	gameID := s.GetCurrentGame()
	if gameID == "" {
		return fmt.Errorf("no current game, use 'new' or 'join <gameId>'")
	}

	c := s.GetClient().(*api.Client)
	moveCount := s.GetLastMoveCount()

	fmt.Printf("%sLong-polling for updates (move count: %d)...%s\n",
		display.Cyan, moveCount, display.Reset)
	fmt.Printf("%sThis may take up to 25 seconds%s\n", display.Cyan, display.Reset)

	resp, err := c.GetGameWithPoll(gameID, moveCount)
	if err != nil {
		return err
	}

	s.SetLastMoveCount(len(resp.Moves))
	s.SetGameState(resp)

	if len(resp.Moves) > moveCount {
		fmt.Printf("%sGame updated! New moves detected%s\n", display.Green, display.Reset)
		if resp.LastMove != nil {
			fmt.Printf("Last move: %s-%s\n", resp.LastMove.From, resp.LastMove.To)
		}
	} else {
		fmt.Printf("%sNo updates (timeout)%s\n", display.Yellow, display.Reset)
	}

	return nil
}
