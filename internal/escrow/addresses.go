// Package escrow talks to the on-chain rps-escrow program: it derives the
// escrow and vault addresses for a game and submits the authority-signed
// resolve transaction that releases the custodied stake.
package escrow

import (
	"crypto/sha256"
	"fmt"

	solana "github.com/gagliardetto/solana-go"
)

// DefaultProgramID is the devnet deployment; must match the program's
// declare_id.
const DefaultProgramID = "F4d4VwBaQrqf5hUZs74XoiVCAo76BpeRSqABxMMzG7kN"

// anchorDiscriminator is the 8-byte Anchor instruction tag:
// sha256("global:<name>")[..8].
func anchorDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("global:" + name))

	return sum[:8]
}

// DeriveAddresses computes the escrow PDA (seeds ["game_escrow", creator,
// gameID]) and its vault PDA (seeds ["vault", escrow]). Pure and
// deterministic; callable without network access.
func DeriveAddresses(programID, creatorPubkey string, gameID [16]byte) (escrowAddr, vaultAddr string, err error) {
	program, err := solana.PublicKeyFromBase58(programID)
	if err != nil {
		return "", "", fmt.Errorf("parse program id: %w", err)
	}

	creator, err := solana.PublicKeyFromBase58(creatorPubkey)
	if err != nil {
		return "", "", fmt.Errorf("parse creator pubkey: %w", err)
	}

	escrowPDA, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("game_escrow"), creator.Bytes(), gameID[:]},
		program,
	)
	if err != nil {
		return "", "", fmt.Errorf("derive escrow address: %w", err)
	}

	vaultPDA, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("vault"), escrowPDA.Bytes()},
		program,
	)
	if err != nil {
		return "", "", fmt.Errorf("derive vault address: %w", err)
	}

	return escrowPDA.String(), vaultPDA.String(), nil
}
