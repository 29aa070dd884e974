package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// System program transfer instruction index (u32 little-endian).
const systemTransferIndex = 2

// systemProgramID is the all-zero public key of the system program.
var systemProgramID [32]byte

// buildTransferTx assembles and signs a legacy Solana transaction carrying a
// single system-program transfer. Layout: compact array of signatures
// followed by the message (header, account keys, recent blockhash,
// instructions), with compact-u16 length prefixes throughout.
func buildTransferTx(priv ed25519.PrivateKey, to string, lamports uint64, recentBlockhash string) ([]byte, string, error) {
	from := priv.Public().(ed25519.PublicKey)

	toKey, err := decodePubkey(to)
	if err != nil {
		return nil, "", fmt.Errorf("destination address: %w", err)
	}

	blockhash := base58.Decode(recentBlockhash)
	if len(blockhash) != 32 {
		return nil, "", fmt.Errorf("recent blockhash %q is not 32 bytes", recentBlockhash)
	}

	// Instruction data: u32 instruction index + u64 lamports, little-endian.
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], systemTransferIndex)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	var msg bytes.Buffer
	// Header: 1 required signature, 0 readonly signed, 1 readonly unsigned
	// (the system program).
	msg.Write([]byte{1, 0, 1})
	// Account keys: fee payer/sender, recipient, system program.
	writeCompactU16(&msg, 3)
	msg.Write(from)
	msg.Write(toKey[:])
	msg.Write(systemProgramID[:])
	msg.Write(blockhash)
	// One instruction: program index 2, accounts [0, 1], transfer data.
	writeCompactU16(&msg, 1)
	msg.WriteByte(2)
	writeCompactU16(&msg, 2)
	msg.Write([]byte{0, 1})
	writeCompactU16(&msg, uint16(len(data)))
	msg.Write(data)

	sig := ed25519.Sign(priv, msg.Bytes())

	var tx bytes.Buffer
	writeCompactU16(&tx, 1)
	tx.Write(sig)
	tx.Write(msg.Bytes())

	return tx.Bytes(), base58.Encode(sig), nil
}

// decodePubkey decodes a base58 Solana address into its 32-byte key.
func decodePubkey(address string) ([32]byte, error) {
	var key [32]byte
	raw := base58.Decode(address)
	if len(raw) != 32 {
		return key, fmt.Errorf("address %q is not a 32-byte base58 key", address)
	}
	copy(key[:], raw)
	return key, nil
}

// writeCompactU16 writes the Solana shortvec length encoding.
func writeCompactU16(buf *bytes.Buffer, v uint16) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			buf.WriteByte(b)
			return
		}
		buf.WriteByte(b | 0x80)
	}
}
