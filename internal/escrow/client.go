package escrow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/seeker-rps/api/internal/config"
)

// Client submits resolve transactions signed by the settlement authority.
// When no authority keypair is configured the client still derives addresses
// but refuses to resolve.
type Client struct {
	rpc       *rpc.Client
	programID solana.PublicKey
	authority solana.PrivateKey // nil disables resolve
	txTimeout time.Duration
	pollEvery time.Duration
}

func NewClient(cfg config.SolanaConfig) (*Client, error) {
	program, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("parse program id: %w", err)
	}

	c := &Client{
		rpc:       rpc.New(cfg.RPCURL),
		programID: program,
		txTimeout: cfg.TransactionTimeout,
		pollEvery: cfg.ConfirmPollInterval,
	}

	if cfg.AuthorityKeyPath != "" {
		key, kerr := solana.PrivateKeyFromSolanaKeygenFile(cfg.AuthorityKeyPath)
		if kerr != nil {
			slog.Warn("resolve authority keypair failed to load; on-chain resolve disabled",
				"error", kerr)
		} else {
			c.authority = key
		}
	}

	return c, nil
}

// CanResolve reports whether a settlement authority is available.
func (c *Client) CanResolve() bool {
	return c.authority != nil
}

// DeriveAddresses derives the escrow and vault PDAs under the client's
// program id.
func (c *Client) DeriveAddresses(creatorPubkey string, gameID [16]byte) (string, string, error) {
	return DeriveAddresses(c.programID.String(), creatorPubkey, gameID)
}

// Resolve sends the program's resolve instruction paying the full escrow
// balance to winner, and waits for confirmation. gameID is the 16-byte game
// id used in the PDA seeds.
func (c *Client) Resolve(ctx context.Context, gameID [16]byte, creatorPubkey, winnerPubkey string) (string, error) {
	if c.authority == nil {
		return "", errors.New("resolve authority keypair not configured")
	}

	creator, err := solana.PublicKeyFromBase58(creatorPubkey)
	if err != nil {
		return "", fmt.Errorf("parse creator pubkey: %w", err)
	}

	winner, err := solana.PublicKeyFromBase58(winnerPubkey)
	if err != nil {
		return "", fmt.Errorf("parse winner pubkey: %w", err)
	}

	escrowPDA, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("game_escrow"), creator.Bytes(), gameID[:]},
		c.programID,
	)
	if err != nil {
		return "", fmt.Errorf("derive escrow address: %w", err)
	}

	data := append(anchorDiscriminator("resolve"), winner.Bytes()...)

	ix := solana.NewInstruction(c.programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(c.authority.PublicKey(), false, true),
		solana.NewAccountMeta(escrowPDA, true, false),
		solana.NewAccountMeta(winner, true, false),
	}, data)

	ctx, cancel := context.WithTimeout(ctx, c.txTimeout)
	defer cancel()

	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		recent.Value.Blockhash,
		solana.TransactionPayer(c.authority.PublicKey()),
	)
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(c.authority.PublicKey()) {
			return &c.authority
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	err = c.waitForConfirmation(ctx, sig)
	if err != nil {
		return "", err
	}

	return sig.String(), nil
}

func (c *Client) waitForConfirmation(ctx context.Context, sig solana.Signature) error {
	tick := time.NewTicker(c.pollEvery)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("confirm %s: %w", sig, ctx.Err())
		case <-tick.C:
			out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
			if err != nil {
				slog.Debug("signature status poll failed", "signature", sig.String(), "error", err)
				continue
			}
			if len(out.Value) == 0 || out.Value[0] == nil {
				continue
			}

			status := out.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed: %v", sig, status.Err)
			}

			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}
	}
}
