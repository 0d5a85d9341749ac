// Command play is a console client for one gacha session.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/xtding233/gacha-economy/internal/game"
	"github.com/xtding233/gacha-economy/internal/ledger"
	"github.com/xtding233/gacha-economy/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}
	cfg, err := game.ParseProcessEnv()
	if err != nil {
		log.Fatal(err)
	}
	_, settings, err := game.NewLoader(cfg.ConfigDir).Resolve(cfg.Profile)
	if err != nil {
		log.Fatal(err)
	}
	sess, err := session.New(settings, log.New(io.Discard, "", 0))
	if err != nil {
		log.Fatal(err)
	}
	if err := run(sess, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(sess *session.Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	readInt := func(prompt string) (int, bool) {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil {
			return -1, true
		}
		return n, true
	}

	for {
		fmt.Fprintf(out, "\n=== Gacha ===\n1. Pull (Cost: %d)\n2. Ten pull (Cost: %d)\n3. Show inventory\n4. Show currency\n5. Sell item\n0. Exit\n",
			sess.Price().TokensForDraws(1), sess.Price().TokensForDraws(10))
		choice, ok := readInt("Choice: ")
		if !ok || choice == 0 {
			fmt.Fprintln(out, "\nGoodbye!")
			return sc.Err()
		}
		switch choice {
		case 1:
			res, err := sess.Pull()
			if err != nil {
				if fatal := explain(out, err); fatal != nil {
					return fatal
				}
				continue
			}
			fmt.Fprintf(out, "Pulled: %s (%s)\n", res.Item, res.Item.Rarity())
			if res.PityActivated {
				fmt.Fprintln(out, "Pity system activated, odds increased!")
			}
		case 2:
			res, err := sess.PullMany(10)
			if err != nil {
				if fatal := explain(out, err); fatal != nil {
					return fatal
				}
				continue
			}
			for _, it := range res.Items {
				fmt.Fprintf(out, "Pulled: %s\n", it)
			}
		case 3:
			showInventory(sess, out)
		case 4:
			fmt.Fprintf(out, "\nCurrency: %d\n", sess.Currency())
		case 5:
			for {
				showInventory(sess, out)
				slot, ok := readInt("Select item number to sell (0 to exit): ")
				if !ok || slot == 0 {
					break
				}
				res, err := sess.Sell(slot)
				if err != nil {
					explain(out, err)
					continue
				}
				fmt.Fprintf(out, "Sold: %s for %d currency.\n", res.ItemName, res.RefundAmount)
			}
		default:
			fmt.Fprintln(out, "\nInvalid choice.")
		}
	}
}

func showInventory(sess *session.Session, out io.Writer) {
	fmt.Fprintf(out, "\n--- Inventory (%d/%d) ---\n", len(sess.Inventory()), sess.Capacity())
	for _, e := range sess.Inventory() {
		fmt.Fprintf(out, "%d. %s [%d★]\n", e.Slot, e.Name, int(e.Rarity))
	}
}

// explain prints user errors and returns anything that should end the game.
func explain(out io.Writer, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInventoryFull):
		fmt.Fprintln(out, "Please sell to make space!")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		fmt.Fprintln(out, "You cannot afford any more pulls.")
	case errors.Is(err, ledger.ErrInvalidSlot):
		fmt.Fprintln(out, "Invalid item selection!")
	default:
		return err
	}
	return nil
}
