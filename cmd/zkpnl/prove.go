package main

import (
	"fmt"

	"github.com/0kPN1/zkpnl/internal/ledger"
	"github.com/0kPN1/zkpnl/internal/proof"
	"github.com/0kPN1/zkpnl/internal/store"
)

// cmdProve implements spec.md §4.6's prove operation: one proof for the
// genesis snapshot (no previous), then one chained proof per consecutive
// snapshot pair, matching original_source/src/cmd.rs::prove's
// first-then-zip-with-tail structure.
func (a *App) cmdProve() error {
	album, err := a.store.ReadSnapshots()
	if err != nil {
		return err
	}
	if len(album) == 0 {
		fmt.Println("no snapshot. please take snapshot first.")
		return nil
	}

	fmt.Println("generating initial snapshot proof")
	if err := a.writeProof(nil, &album[0]); err != nil {
		return err
	}

	fmt.Println("generating snapshot proof")
	for i := 1; i < len(album); i++ {
		if err := a.writeProof(&album[i-1], &album[i]); err != nil {
			return err
		}
	}
	fmt.Printf("Write all %d snapshot proofs completed\n", len(album))
	return nil
}

func (a *App) writeProof(previous, current *ledger.Snapshot) error {
	p, err := proof.New(previous, current, a.cfg.Transcript, a.signer)
	if err != nil {
		return err
	}
	filename := store.ProofFilename(previous, *current)
	return a.store.WriteProof(p, filename)
}

// cmdVerify implements spec.md §4.6's verify operation: run the three
// independent checks on a single named proof file.
func (a *App) cmdVerify(filename string) error {
	p, err := a.store.ReadProof(filename)
	if err != nil {
		return err
	}
	return p.VerifyAll()
}

// cmdVerifyAll implements the supplemented batch verification:
// original_source/src/cmd.rs::verify_all walks every file under the
// proof directory and verifies each.
func (a *App) cmdVerifyAll() error {
	names, err := a.store.ListProofs()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no proof file found")
		return nil
	}
	for _, name := range names {
		fmt.Printf("verify %s\n", name)
		if err := a.cmdVerify(name); err != nil {
			return err
		}
	}
	fmt.Printf("Verify all %d proofs OK.\n", len(names))
	return nil
}
