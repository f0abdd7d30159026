package ata

import (
	"errors"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// CreateIdempotent creates the associated token account for the given
// wallet and mint. Unlike Create, it succeeds as a no-op when the account
// already exists, which makes it safe to prepend to mint and transfer
// transactions.
type CreateIdempotent struct {
	Payer  solana.PublicKey `bin:"-" borsh_skip:"true"`
	Wallet solana.PublicKey `bin:"-" borsh_skip:"true"`
	Mint   solana.PublicKey `bin:"-" borsh_skip:"true"`

	// [0] = [WRITE, SIGNER] Payer
	// [1] = [WRITE] AssociatedTokenAccount
	// [2] = [] Wallet
	// [3] = [] TokenMint
	// [4] = [] SystemProgram
	// [5] = [] TokenProgram
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

// NewCreateIdempotentInstructionBuilder creates a new CreateIdempotent
// instruction builder.
func NewCreateIdempotentInstructionBuilder() *CreateIdempotent {
	return &CreateIdempotent{
		AccountMetaSlice: make(solana.AccountMetaSlice, 0, 6),
	}
}

func (inst *CreateIdempotent) SetPayer(payer solana.PublicKey) *CreateIdempotent {
	inst.Payer = payer
	return inst
}

func (inst *CreateIdempotent) SetWallet(wallet solana.PublicKey) *CreateIdempotent {
	inst.Wallet = wallet
	return inst
}

func (inst *CreateIdempotent) SetMint(mint solana.PublicKey) *CreateIdempotent {
	inst.Mint = mint
	return inst
}

func (inst *CreateIdempotent) Validate() error {
	if inst.Payer.IsZero() {
		return errors.New("Payer not set")
	}
	if inst.Wallet.IsZero() {
		return errors.New("Wallet not set")
	}
	if inst.Mint.IsZero() {
		return errors.New("Mint not set")
	}
	return nil
}

func (inst *CreateIdempotent) Build() *Instruction {
	associatedTokenAddress, _, _ := solana.FindAssociatedTokenAddress(inst.Wallet, inst.Mint)

	inst.AccountMetaSlice = solana.AccountMetaSlice{
		solana.Meta(inst.Payer).WRITE().SIGNER(),
		solana.Meta(associatedTokenAddress).WRITE(),
		solana.Meta(inst.Wallet),
		solana.Meta(inst.Mint),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
	}

	return &Instruction{BaseVariant: bin.BaseVariant{
		Impl:   inst,
		TypeID: bin.TypeIDFromUint8(Instruction_CreateIdempotent),
	}}
}

func (inst *CreateIdempotent) ValidateAndBuild() (*Instruction, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst.Build(), nil
}

// The instruction carries no data beyond its variant byte.
func (inst CreateIdempotent) MarshalWithEncoder(encoder *bin.Encoder) error {
	return nil
}

func (inst *CreateIdempotent) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return nil
}

// NewCreateIdempotentInstruction builds a CreateIdempotent instruction for
// the wallet's associated token account of the given mint, funded by payer.
func NewCreateIdempotentInstruction(
	payer solana.PublicKey,
	wallet solana.PublicKey,
	mint solana.PublicKey,
) *CreateIdempotent {
	return NewCreateIdempotentInstructionBuilder().
		SetPayer(payer).
		SetWallet(wallet).
		SetMint(mint)
}
