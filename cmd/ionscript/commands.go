// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
	"github.com/ioncore/ionscript/chaincfg"
	"github.com/ioncore/ionscript/ionutil"
	"github.com/ioncore/ionscript/txscript"
)

// errScriptFailed is returned by eval and trace when a script did not run
// cleanly, so the process exits non-zero after printing the details.
var errScriptFailed = errors.New("script evaluation failed")

// runner is implemented by every command.
type runner interface {
	run(w io.Writer, args []string) error
}

// commandSpec describes a command for the option parser.
type commandSpec struct {
	name  string
	short string
	long  string
	data  runner
}

// commands holds the option values of every command.
type commands struct {
	eval   evalCmd
	trace  traceCmd
	sign   signCmd
	spend  spendCmd
	txid   txidCmd
	keygen keygenCmd
	decode decodeCmd
}

func newCommands(cfg *config) *commands {
	cmds := &commands{}
	cmds.eval.cfg = cfg
	cmds.trace.cfg = cfg
	cmds.sign.cfg = cfg
	cmds.spend.cfg = cfg
	cmds.keygen.cfg = cfg
	return cmds
}

func (c *commands) all() []commandSpec {
	return []commandSpec{
		{"eval", "Evaluate scripts", "Evaluate one or more short form " +
			"scripts back to back on one machine and print the final " +
			"stack.", &c.eval},
		{"trace", "Step through a script", "Evaluate the setup scripts " +
			"given with --setup and then step through the script one " +
			"opcode at a time, printing the position and stack after " +
			"each step.", &c.trace},
		{"sign", "Sign a transaction input", "Sign one input of a " +
			"transaction and print the signature with its hash type " +
			"byte.", &c.sign},
		{"spend", "Build and sign a spend", "Spend every output in a " +
			"listunspent JSON file to an address, verify each input and " +
			"print the transaction.", &c.spend},
		{"txid", "Print a transaction id", "Print the id of a hex " +
			"encoded transaction as nodes display it.", &c.txid},
		{"keygen", "Generate a key", "Generate a private key and print " +
			"it with its public key, address payload and address.",
			&c.keygen},
		{"decode", "Dump a transaction", "Decode a hex encoded " +
			"transaction and dump its structure.", &c.decode},
	}
}

// lookup returns the command registered under name.
func (c *commands) lookup(name string) (runner, bool) {
	for _, spec := range c.all() {
		if spec.name == name {
			return spec.data, true
		}
	}
	return nil, false
}

// txOptions selects the input a script machine verifies signatures against.
type txOptions struct {
	Tx       string `long:"tx" description:"Hex encoded spending transaction"`
	Input    int    `long:"input" description:"Index of the input being verified"`
	Amount   int64  `long:"amount" description:"Value of the output being spent in the base unit"`
	PrevOut  string `long:"prevout" description:"Short form script of the output being spent"`
	CacheMax uint   `long:"sigcache" default:"100" description:"Number of verified signatures to cache"`
}

// context returns the verification context the options describe, or nil when
// no transaction was given.
func (o *txOptions) context(params *chaincfg.Params) (*txscript.TxContext, error) {
	if o.Tx == "" {
		return nil, nil
	}
	tx, err := ionutil.DecodeTx(o.Tx)
	if err != nil {
		return nil, err
	}
	prevOut, err := txscript.ParseShortForm(o.PrevOut)
	if err != nil {
		return nil, fmt.Errorf("bad --prevout script: %w", err)
	}
	return txscript.NewTxContext(tx, o.Input, o.Amount, prevOut, params,
		txscript.NewSigCache(o.CacheMax))
}

// parseScripts parses each argument as a short form script.
func parseScripts(args []string) ([][]byte, error) {
	scripts := make([][]byte, 0, len(args))
	for _, arg := range args {
		script, err := txscript.ParseShortForm(arg)
		if err != nil {
			return nil, fmt.Errorf("unable to parse script %q: %w", arg, err)
		}
		scripts = append(scripts, script)
	}
	return scripts, nil
}

// writeStack prints the items of a stack bottom to top.
func writeStack(w io.Writer, name string, items [][]byte) {
	fmt.Fprintf(w, "%s (%d items, bottom first):\n", name, len(items))
	for i, item := range items {
		fmt.Fprintf(w, "  %d: %x\n", i, item)
	}
}

// writeFault prints the error the machine stopped with.
func writeFault(w io.Writer, vm *txscript.ScriptMachine) {
	code, pos := vm.Err()
	fmt.Fprintf(w, "error: %v at position %d: %v\n", code, pos,
		vm.LastError())
}

type evalCmd struct {
	txOptions
	Verify bool `long:"verify" description:"Verify the input of --tx with its signature script and --prevout instead of evaluating arguments"`

	cfg *config
}

func (c *evalCmd) run(w io.Writer, args []string) error {
	ctx, err := c.context(c.cfg.params)
	if err != nil {
		return err
	}

	if c.Verify {
		if ctx == nil {
			return errors.New("--verify requires --tx")
		}
		if err := ctx.VerifyInput(c.cfg.scriptFlags()); err != nil {
			fmt.Fprintf(w, "input %d: %v\n", c.Input, err)
			return errScriptFailed
		}
		fmt.Fprintf(w, "input %d: ok\n", c.Input)
		return nil
	}

	scripts, err := parseScripts(args)
	if err != nil {
		return err
	}
	vm := txscript.NewScriptMachine(c.cfg.scriptFlags(), ctx)
	defer vm.Cleanup()

	for i, script := range scripts {
		if !vm.Eval(script) {
			fmt.Fprintf(w, "script %d failed\n", i)
			writeFault(w, vm)
			writeStack(w, "stack", vm.Stack())
			return errScriptFailed
		}
	}
	writeStack(w, "stack", vm.Stack())
	if alt := vm.AltStack(); len(alt) != 0 {
		writeStack(w, "altstack", alt)
	}
	return nil
}

type traceCmd struct {
	txOptions
	Setup []string `long:"setup" description:"Short form script to evaluate before tracing (may be repeated)"`

	cfg *config
}

func (c *traceCmd) run(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("trace takes exactly one script")
	}
	ctx, err := c.context(c.cfg.params)
	if err != nil {
		return err
	}
	setup, err := parseScripts(c.Setup)
	if err != nil {
		return err
	}
	scripts, err := parseScripts(args)
	if err != nil {
		return err
	}

	vm := txscript.NewScriptMachine(c.cfg.scriptFlags(), ctx)
	defer vm.Cleanup()
	for _, script := range setup {
		if !vm.Eval(script) {
			writeFault(w, vm)
			return errScriptFailed
		}
	}

	if err := vm.Begin(scripts[0]); err != nil {
		writeFault(w, vm)
		return errScriptFailed
	}
	for {
		next, err := vm.DisasmPC()
		if err == nil {
			fmt.Fprintln(w, next)
		}
		err = vm.Step()
		if errors.Is(err, txscript.ErrStepBeyondEnd) {
			break
		}
		if err != nil {
			writeFault(w, vm)
			return errScriptFailed
		}
		fmt.Fprintf(w, "  pos %d, stack %x\n", vm.Pos(), vm.Stack())
	}
	writeStack(w, "stack", vm.Stack())
	return nil
}

// parseHashType parses a hash type such as "ALL|FORKID|ANYONECANPAY".
func parseHashType(s string) (txscript.SigHashType, error) {
	var hashType txscript.SigHashType
	for _, part := range strings.Split(strings.ToUpper(s), "|") {
		switch strings.TrimSpace(part) {
		case "ALL":
			hashType |= txscript.SigHashAll
		case "NONE":
			hashType |= txscript.SigHashNone
		case "SINGLE":
			hashType |= txscript.SigHashSingle
		case "FORKID":
			hashType |= txscript.SigHashForkID
		case "ANYONECANPAY":
			hashType |= txscript.SigHashAnyOneCanPay
		default:
			return 0, fmt.Errorf("unknown hash type %q", part)
		}
	}
	return hashType, nil
}

// parsePrivKey accepts a raw private key in hex or a WIF string of the
// network.  Raw keys use compressed public keys.
func parsePrivKey(s string, params *chaincfg.Params) ([]byte, bool, error) {
	if len(s) == 2*btcec.PrivKeyBytesLen {
		if raw, err := hex.DecodeString(s); err == nil {
			if _, err := ionutil.PubKey(raw); err != nil {
				return nil, false, err
			}
			return raw, true, nil
		}
	}
	return ionutil.DecodeWIF(s, params)
}

type signCmd struct {
	txOptions
	Key      string `long:"key" required:"true" description:"Private key as hex or WIF"`
	HashType string `long:"hashtype" default:"ALL|FORKID" description:"Signature hash type"`

	cfg *config
}

func (c *signCmd) run(w io.Writer, args []string) error {
	if c.Tx == "" {
		return errors.New("sign requires --tx")
	}
	tx, err := ionutil.DecodeTx(c.Tx)
	if err != nil {
		return err
	}
	prevOut, err := txscript.ParseShortForm(c.PrevOut)
	if err != nil {
		return fmt.Errorf("bad --prevout script: %w", err)
	}
	hashType, err := parseHashType(c.HashType)
	if err != nil {
		return err
	}
	priv, _, err := parsePrivKey(c.Key, c.cfg.params)
	if err != nil {
		return err
	}

	sig, err := txscript.SignTxInput(tx, c.Input, c.Amount, prevOut, priv,
		hashType, c.cfg.params)
	if err != nil {
		return fmt.Errorf("unable to sign input %d: %w", c.Input, err)
	}
	fmt.Fprintf(w, "%x\n", sig)
	return nil
}

type spendCmd struct {
	Utxos    string `long:"utxos" required:"true" description:"File holding the listunspent JSON of the outputs to spend"`
	Key      string `long:"key" required:"true" description:"Private key as hex or WIF owning the outputs"`
	To       string `long:"to" required:"true" description:"Destination address"`
	Fee      int64  `long:"fee" default:"1000" description:"Fee in the base unit"`
	HashType string `long:"hashtype" default:"ALL|FORKID" description:"Signature hash type"`

	cfg *config
}

func (c *spendCmd) run(w io.Writer, args []string) error {
	params := c.cfg.params
	f, err := os.Open(c.Utxos)
	if err != nil {
		return err
	}
	utxos, err := ionutil.ReadUtxos(f)
	f.Close()
	if err != nil {
		return err
	}
	if len(utxos) == 0 {
		return errors.New("no unspent outputs to spend")
	}

	priv, compress, err := parsePrivKey(c.Key, params)
	if err != nil {
		return err
	}
	hashType, err := parseHashType(c.HashType)
	if err != nil {
		return err
	}
	destBin, err := ionutil.DecodeAddress(c.To, params)
	if err != nil {
		return err
	}
	destScript, err := txscript.PayToPubKeyHashScript(destBin)
	if err != nil {
		return err
	}

	tx, amounts, pkScripts, err := buildSpend(utxos, destScript, c.Fee)
	if err != nil {
		return err
	}

	key, _ := btcec.PrivKeyFromBytes(priv)
	for i := range tx.TxIn {
		sigScript, err := txscript.SignatureScript(tx, i, amounts[i],
			pkScripts[i], hashType, key, compress, params)
		if err != nil {
			return fmt.Errorf("unable to sign input %d: %w", i, err)
		}
		tx.TxIn[i].SignatureScript = sigScript
	}

	// Verify every input before handing the transaction out.
	sigCache := txscript.NewSigCache(uint(len(tx.TxIn)))
	for i := range tx.TxIn {
		ctx, err := txscript.NewTxContext(tx, i, amounts[i], pkScripts[i],
			params, sigCache)
		if err != nil {
			return err
		}
		if err := ctx.VerifyInput(c.cfg.scriptFlags()); err != nil {
			return fmt.Errorf("input %d does not verify: %w", i, err)
		}
	}

	txHex, err := ionutil.EncodeTx(tx)
	if err != nil {
		return err
	}
	log.Infof("Spent %d outputs in %v", len(tx.TxIn), tx.TxHash())
	fmt.Fprintf(w, "%s\n%s\n", txHex, tx.TxHash())
	return nil
}

// buildSpend returns an unsigned transaction spending every utxo to
// destScript less the fee, along with the amount and script of each input.
func buildSpend(utxos []ionutil.Utxo, destScript []byte,
	fee int64) (*wire.MsgTx, []int64, [][]byte, error) {

	tx := wire.NewMsgTx(wire.TxVersion)
	amounts := make([]int64, 0, len(utxos))
	pkScripts := make([][]byte, 0, len(utxos))
	var total int64
	for i := range utxos {
		u := &utxos[i]
		prevOut, err := u.OutPoint()
		if err != nil {
			return nil, nil, nil, err
		}
		pkScript, err := u.PkScript()
		if err != nil {
			return nil, nil, nil, err
		}
		value, err := u.Value()
		if err != nil {
			return nil, nil, nil, err
		}

		tx.AddTxIn(wire.NewTxIn(prevOut, nil, nil))
		amounts = append(amounts, int64(value))
		pkScripts = append(pkScripts, pkScript)
		total += int64(value)
	}

	if fee < 0 || total-fee <= 0 {
		return nil, nil, nil, fmt.Errorf("fee %d leaves nothing of the "+
			"%d being spent", fee, total)
	}
	tx.AddTxOut(wire.NewTxOut(total-fee, destScript))
	return tx, amounts, pkScripts, nil
}

type txidCmd struct{}

func (c *txidCmd) run(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("txid takes exactly one transaction")
	}
	id, err := ionutil.TxIDString(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, id)
	return nil
}

type keygenCmd struct {
	Uncompressed bool `long:"uncompressed" description:"Use the uncompressed public key for the address"`

	cfg *config
}

func (c *keygenCmd) run(w io.Writer, args []string) error {
	priv, err := ionutil.NewPrivateKey()
	if err != nil {
		return err
	}
	wif, err := ionutil.EncodeWIF(priv, c.cfg.params, !c.Uncompressed)
	if err != nil {
		return err
	}

	pubKey, err := ionutil.PubKey(priv)
	if err != nil {
		return err
	}
	if c.Uncompressed {
		_, pub := btcec.PrivKeyFromBytes(priv)
		pubKey = pub.SerializeUncompressed()
	}
	addrBin := ionutil.AddrBin(pubKey)
	addr, err := ionutil.EncodeAddress(addrBin, c.cfg.params)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "privkey: %x\nwif:     %s\npubkey:  %x\naddrbin: %x\n"+
		"address: %s\n", priv, wif, pubKey, addrBin, addr)
	return nil
}

type decodeCmd struct{}

func (c *decodeCmd) run(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("decode takes exactly one transaction")
	}
	tx, err := ionutil.DecodeTx(args[0])
	if err != nil {
		return err
	}
	spew.Fdump(w, tx)
	return nil
}
