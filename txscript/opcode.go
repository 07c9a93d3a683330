// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"golang.org/x/crypto/ripemd160"
)

// opcodeClass partitions the opcode space by the part of the machine an opcode
// acts on.  Every entry of opcodeArray carries exactly one class and
// dispatchOpcode switches over the full set.
type opcodeClass uint8

const (
	classPush opcodeClass = iota
	classNop
	classReserved
	classDisabled
	classInvalid
	classFlow
	classStack
	classAltStack
	classSplice
	classBitwise
	classArithmetic
	classCrypto
	classSignature
	classLockTime
)

// An opcode defines the information related to a txscript opcode.  The length
// is 1 for opcodes without inline data, the total encoded size for the
// OP_DATA_N pushes, and the negated size of the length prefix for the
// OP_PUSHDATA{1,2,4} opcodes.
type opcode struct {
	value  byte
	name   string
	length int
	class  opcodeClass
}

// These constants are the values of the official opcodes used on the btc wiki,
// in bitcoin core and in most if not all other references and software related
// to handling BTC scripts.  The splice, bitwise and arithmetic opcodes that
// were disabled in bitcoin are enabled here with their Bitcoin Cash meaning.
const (
	OP_0                   = 0x00 // 0
	OP_FALSE               = 0x00 // 0 - AKA OP_0
	OP_DATA_1              = 0x01 // 1
	OP_DATA_2              = 0x02 // 2
	OP_DATA_3              = 0x03 // 3
	OP_DATA_4              = 0x04 // 4
	OP_DATA_5              = 0x05 // 5
	OP_DATA_6              = 0x06 // 6
	OP_DATA_7              = 0x07 // 7
	OP_DATA_8              = 0x08 // 8
	OP_DATA_9              = 0x09 // 9
	OP_DATA_10             = 0x0a // 10
	OP_DATA_11             = 0x0b // 11
	OP_DATA_12             = 0x0c // 12
	OP_DATA_13             = 0x0d // 13
	OP_DATA_14             = 0x0e // 14
	OP_DATA_15             = 0x0f // 15
	OP_DATA_16             = 0x10 // 16
	OP_DATA_17             = 0x11 // 17
	OP_DATA_18             = 0x12 // 18
	OP_DATA_19             = 0x13 // 19
	OP_DATA_20             = 0x14 // 20
	OP_DATA_21             = 0x15 // 21
	OP_DATA_22             = 0x16 // 22
	OP_DATA_23             = 0x17 // 23
	OP_DATA_24             = 0x18 // 24
	OP_DATA_25             = 0x19 // 25
	OP_DATA_26             = 0x1a // 26
	OP_DATA_27             = 0x1b // 27
	OP_DATA_28             = 0x1c // 28
	OP_DATA_29             = 0x1d // 29
	OP_DATA_30             = 0x1e // 30
	OP_DATA_31             = 0x1f // 31
	OP_DATA_32             = 0x20 // 32
	OP_DATA_33             = 0x21 // 33
	OP_DATA_34             = 0x22 // 34
	OP_DATA_35             = 0x23 // 35
	OP_DATA_36             = 0x24 // 36
	OP_DATA_37             = 0x25 // 37
	OP_DATA_38             = 0x26 // 38
	OP_DATA_39             = 0x27 // 39
	OP_DATA_40             = 0x28 // 40
	OP_DATA_41             = 0x29 // 41
	OP_DATA_42             = 0x2a // 42
	OP_DATA_43             = 0x2b // 43
	OP_DATA_44             = 0x2c // 44
	OP_DATA_45             = 0x2d // 45
	OP_DATA_46             = 0x2e // 46
	OP_DATA_47             = 0x2f // 47
	OP_DATA_48             = 0x30 // 48
	OP_DATA_49             = 0x31 // 49
	OP_DATA_50             = 0x32 // 50
	OP_DATA_51             = 0x33 // 51
	OP_DATA_52             = 0x34 // 52
	OP_DATA_53             = 0x35 // 53
	OP_DATA_54             = 0x36 // 54
	OP_DATA_55             = 0x37 // 55
	OP_DATA_56             = 0x38 // 56
	OP_DATA_57             = 0x39 // 57
	OP_DATA_58             = 0x3a // 58
	OP_DATA_59             = 0x3b // 59
	OP_DATA_60             = 0x3c // 60
	OP_DATA_61             = 0x3d // 61
	OP_DATA_62             = 0x3e // 62
	OP_DATA_63             = 0x3f // 63
	OP_DATA_64             = 0x40 // 64
	OP_DATA_65             = 0x41 // 65
	OP_DATA_66             = 0x42 // 66
	OP_DATA_67             = 0x43 // 67
	OP_DATA_68             = 0x44 // 68
	OP_DATA_69             = 0x45 // 69
	OP_DATA_70             = 0x46 // 70
	OP_DATA_71             = 0x47 // 71
	OP_DATA_72             = 0x48 // 72
	OP_DATA_73             = 0x49 // 73
	OP_DATA_74             = 0x4a // 74
	OP_DATA_75             = 0x4b // 75
	OP_PUSHDATA1           = 0x4c // 76
	OP_PUSHDATA2           = 0x4d // 77
	OP_PUSHDATA4           = 0x4e // 78
	OP_1NEGATE             = 0x4f // 79
	OP_RESERVED            = 0x50 // 80
	OP_1                   = 0x51 // 81
	OP_TRUE                = 0x51 // 81 - AKA OP_1
	OP_2                   = 0x52 // 82
	OP_3                   = 0x53 // 83
	OP_4                   = 0x54 // 84
	OP_5                   = 0x55 // 85
	OP_6                   = 0x56 // 86
	OP_7                   = 0x57 // 87
	OP_8                   = 0x58 // 88
	OP_9                   = 0x59 // 89
	OP_10                  = 0x5a // 90
	OP_11                  = 0x5b // 91
	OP_12                  = 0x5c // 92
	OP_13                  = 0x5d // 93
	OP_14                  = 0x5e // 94
	OP_15                  = 0x5f // 95
	OP_16                  = 0x60 // 96
	OP_NOP                 = 0x61 // 97
	OP_VER                 = 0x62 // 98
	OP_IF                  = 0x63 // 99
	OP_NOTIF               = 0x64 // 100
	OP_VERIF               = 0x65 // 101
	OP_VERNOTIF            = 0x66 // 102
	OP_ELSE                = 0x67 // 103
	OP_ENDIF               = 0x68 // 104
	OP_VERIFY              = 0x69 // 105
	OP_RETURN              = 0x6a // 106
	OP_TOALTSTACK          = 0x6b // 107
	OP_FROMALTSTACK        = 0x6c // 108
	OP_2DROP               = 0x6d // 109
	OP_2DUP                = 0x6e // 110
	OP_3DUP                = 0x6f // 111
	OP_2OVER               = 0x70 // 112
	OP_2ROT                = 0x71 // 113
	OP_2SWAP               = 0x72 // 114
	OP_IFDUP               = 0x73 // 115
	OP_DEPTH               = 0x74 // 116
	OP_DROP                = 0x75 // 117
	OP_DUP                 = 0x76 // 118
	OP_NIP                 = 0x77 // 119
	OP_OVER                = 0x78 // 120
	OP_PICK                = 0x79 // 121
	OP_ROLL                = 0x7a // 122
	OP_ROT                 = 0x7b // 123
	OP_SWAP                = 0x7c // 124
	OP_TUCK                = 0x7d // 125
	OP_CAT                 = 0x7e // 126
	OP_SPLIT               = 0x7f // 127
	OP_NUM2BIN             = 0x80 // 128
	OP_BIN2NUM             = 0x81 // 129
	OP_SIZE                = 0x82 // 130
	OP_INVERT              = 0x83 // 131
	OP_AND                 = 0x84 // 132
	OP_OR                  = 0x85 // 133
	OP_XOR                 = 0x86 // 134
	OP_EQUAL               = 0x87 // 135
	OP_EQUALVERIFY         = 0x88 // 136
	OP_RESERVED1           = 0x89 // 137
	OP_RESERVED2           = 0x8a // 138
	OP_1ADD                = 0x8b // 139
	OP_1SUB                = 0x8c // 140
	OP_2MUL                = 0x8d // 141
	OP_2DIV                = 0x8e // 142
	OP_NEGATE              = 0x8f // 143
	OP_ABS                 = 0x90 // 144
	OP_NOT                 = 0x91 // 145
	OP_0NOTEQUAL           = 0x92 // 146
	OP_ADD                 = 0x93 // 147
	OP_SUB                 = 0x94 // 148
	OP_MUL                 = 0x95 // 149
	OP_DIV                 = 0x96 // 150
	OP_MOD                 = 0x97 // 151
	OP_LSHIFT              = 0x98 // 152
	OP_RSHIFT              = 0x99 // 153
	OP_BOOLAND             = 0x9a // 154
	OP_BOOLOR              = 0x9b // 155
	OP_NUMEQUAL            = 0x9c // 156
	OP_NUMEQUALVERIFY      = 0x9d // 157
	OP_NUMNOTEQUAL         = 0x9e // 158
	OP_LESSTHAN            = 0x9f // 159
	OP_GREATERTHAN         = 0xa0 // 160
	OP_LESSTHANOREQUAL     = 0xa1 // 161
	OP_GREATERTHANOREQUAL  = 0xa2 // 162
	OP_MIN                 = 0xa3 // 163
	OP_MAX                 = 0xa4 // 164
	OP_WITHIN              = 0xa5 // 165
	OP_RIPEMD160           = 0xa6 // 166
	OP_SHA1                = 0xa7 // 167
	OP_SHA256              = 0xa8 // 168
	OP_HASH160             = 0xa9 // 169
	OP_HASH256             = 0xaa // 170
	OP_CODESEPARATOR       = 0xab // 171
	OP_CHECKSIG            = 0xac // 172
	OP_CHECKSIGVERIFY      = 0xad // 173
	OP_CHECKMULTISIG       = 0xae // 174
	OP_CHECKMULTISIGVERIFY = 0xaf // 175
	OP_NOP1                = 0xb0 // 176
	OP_NOP2                = 0xb1 // 177
	OP_CHECKLOCKTIMEVERIFY = 0xb1 // 177 - AKA OP_NOP2
	OP_NOP3                = 0xb2 // 178
	OP_CHECKSEQUENCEVERIFY = 0xb2 // 178 - AKA OP_NOP3
	OP_NOP4                = 0xb3 // 179
	OP_NOP5                = 0xb4 // 180
	OP_NOP6                = 0xb5 // 181
	OP_NOP7                = 0xb6 // 182
	OP_NOP8                = 0xb7 // 183
	OP_NOP9                = 0xb8 // 184
	OP_NOP10               = 0xb9 // 185
	OP_CHECKDATASIG        = 0xba // 186
	OP_CHECKDATASIGVERIFY  = 0xbb // 187
	OP_UNKNOWN188          = 0xbc // 188
	OP_UNKNOWN189          = 0xbd // 189
	OP_UNKNOWN190          = 0xbe // 190
	OP_UNKNOWN191          = 0xbf // 191
	OP_UNKNOWN192          = 0xc0 // 192
	OP_UNKNOWN193          = 0xc1 // 193
	OP_UNKNOWN194          = 0xc2 // 194
	OP_UNKNOWN195          = 0xc3 // 195
	OP_UNKNOWN196          = 0xc4 // 196
	OP_UNKNOWN197          = 0xc5 // 197
	OP_UNKNOWN198          = 0xc6 // 198
	OP_UNKNOWN199          = 0xc7 // 199
	OP_UNKNOWN200          = 0xc8 // 200
	OP_UNKNOWN201          = 0xc9 // 201
	OP_UNKNOWN202          = 0xca // 202
	OP_UNKNOWN203          = 0xcb // 203
	OP_UNKNOWN204          = 0xcc // 204
	OP_UNKNOWN205          = 0xcd // 205
	OP_UNKNOWN206          = 0xce // 206
	OP_UNKNOWN207          = 0xcf // 207
	OP_UNKNOWN208          = 0xd0 // 208
	OP_UNKNOWN209          = 0xd1 // 209
	OP_UNKNOWN210          = 0xd2 // 210
	OP_UNKNOWN211          = 0xd3 // 211
	OP_UNKNOWN212          = 0xd4 // 212
	OP_UNKNOWN213          = 0xd5 // 213
	OP_UNKNOWN214          = 0xd6 // 214
	OP_UNKNOWN215          = 0xd7 // 215
	OP_UNKNOWN216          = 0xd8 // 216
	OP_UNKNOWN217          = 0xd9 // 217
	OP_UNKNOWN218          = 0xda // 218
	OP_UNKNOWN219          = 0xdb // 219
	OP_UNKNOWN220          = 0xdc // 220
	OP_UNKNOWN221          = 0xdd // 221
	OP_UNKNOWN222          = 0xde // 222
	OP_UNKNOWN223          = 0xdf // 223
	OP_UNKNOWN224          = 0xe0 // 224
	OP_UNKNOWN225          = 0xe1 // 225
	OP_UNKNOWN226          = 0xe2 // 226
	OP_UNKNOWN227          = 0xe3 // 227
	OP_UNKNOWN228          = 0xe4 // 228
	OP_UNKNOWN229          = 0xe5 // 229
	OP_UNKNOWN230          = 0xe6 // 230
	OP_UNKNOWN231          = 0xe7 // 231
	OP_UNKNOWN232          = 0xe8 // 232
	OP_UNKNOWN233          = 0xe9 // 233
	OP_UNKNOWN234          = 0xea // 234
	OP_UNKNOWN235          = 0xeb // 235
	OP_UNKNOWN236          = 0xec // 236
	OP_UNKNOWN237          = 0xed // 237
	OP_UNKNOWN238          = 0xee // 238
	OP_UNKNOWN239          = 0xef // 239
	OP_UNKNOWN240          = 0xf0 // 240
	OP_UNKNOWN241          = 0xf1 // 241
	OP_UNKNOWN242          = 0xf2 // 242
	OP_UNKNOWN243          = 0xf3 // 243
	OP_UNKNOWN244          = 0xf4 // 244
	OP_UNKNOWN245          = 0xf5 // 245
	OP_UNKNOWN246          = 0xf6 // 246
	OP_UNKNOWN247          = 0xf7 // 247
	OP_UNKNOWN248          = 0xf8 // 248
	OP_UNKNOWN249          = 0xf9 // 249
	OP_SMALLINTEGER        = 0xfa // 250
	OP_PUBKEYS             = 0xfb // 251
	OP_UNKNOWN252          = 0xfc // 252
	OP_PUBKEYHASH          = 0xfd // 253
	OP_PUBKEY              = 0xfe // 254
	OP_INVALIDOPCODE       = 0xff // 255
)

// Conditional execution constants.
const (
	OpCondFalse = 0
	OpCondTrue  = 1
	OpCondSkip  = 2
)

// opcodeArray holds details about all possible opcodes such as how many bytes
// the opcode and any associated data should take, its human-readable name, and
// the class that selects its handler.
var opcodeArray = [256]opcode{
	// Data push opcodes.
	OP_0:         {OP_0, "OP_0", 1, classPush},
	OP_DATA_1:    {OP_DATA_1, "OP_DATA_1", 2, classPush},
	OP_DATA_2:    {OP_DATA_2, "OP_DATA_2", 3, classPush},
	OP_DATA_3:    {OP_DATA_3, "OP_DATA_3", 4, classPush},
	OP_DATA_4:    {OP_DATA_4, "OP_DATA_4", 5, classPush},
	OP_DATA_5:    {OP_DATA_5, "OP_DATA_5", 6, classPush},
	OP_DATA_6:    {OP_DATA_6, "OP_DATA_6", 7, classPush},
	OP_DATA_7:    {OP_DATA_7, "OP_DATA_7", 8, classPush},
	OP_DATA_8:    {OP_DATA_8, "OP_DATA_8", 9, classPush},
	OP_DATA_9:    {OP_DATA_9, "OP_DATA_9", 10, classPush},
	OP_DATA_10:   {OP_DATA_10, "OP_DATA_10", 11, classPush},
	OP_DATA_11:   {OP_DATA_11, "OP_DATA_11", 12, classPush},
	OP_DATA_12:   {OP_DATA_12, "OP_DATA_12", 13, classPush},
	OP_DATA_13:   {OP_DATA_13, "OP_DATA_13", 14, classPush},
	OP_DATA_14:   {OP_DATA_14, "OP_DATA_14", 15, classPush},
	OP_DATA_15:   {OP_DATA_15, "OP_DATA_15", 16, classPush},
	OP_DATA_16:   {OP_DATA_16, "OP_DATA_16", 17, classPush},
	OP_DATA_17:   {OP_DATA_17, "OP_DATA_17", 18, classPush},
	OP_DATA_18:   {OP_DATA_18, "OP_DATA_18", 19, classPush},
	OP_DATA_19:   {OP_DATA_19, "OP_DATA_19", 20, classPush},
	OP_DATA_20:   {OP_DATA_20, "OP_DATA_20", 21, classPush},
	OP_DATA_21:   {OP_DATA_21, "OP_DATA_21", 22, classPush},
	OP_DATA_22:   {OP_DATA_22, "OP_DATA_22", 23, classPush},
	OP_DATA_23:   {OP_DATA_23, "OP_DATA_23", 24, classPush},
	OP_DATA_24:   {OP_DATA_24, "OP_DATA_24", 25, classPush},
	OP_DATA_25:   {OP_DATA_25, "OP_DATA_25", 26, classPush},
	OP_DATA_26:   {OP_DATA_26, "OP_DATA_26", 27, classPush},
	OP_DATA_27:   {OP_DATA_27, "OP_DATA_27", 28, classPush},
	OP_DATA_28:   {OP_DATA_28, "OP_DATA_28", 29, classPush},
	OP_DATA_29:   {OP_DATA_29, "OP_DATA_29", 30, classPush},
	OP_DATA_30:   {OP_DATA_30, "OP_DATA_30", 31, classPush},
	OP_DATA_31:   {OP_DATA_31, "OP_DATA_31", 32, classPush},
	OP_DATA_32:   {OP_DATA_32, "OP_DATA_32", 33, classPush},
	OP_DATA_33:   {OP_DATA_33, "OP_DATA_33", 34, classPush},
	OP_DATA_34:   {OP_DATA_34, "OP_DATA_34", 35, classPush},
	OP_DATA_35:   {OP_DATA_35, "OP_DATA_35", 36, classPush},
	OP_DATA_36:   {OP_DATA_36, "OP_DATA_36", 37, classPush},
	OP_DATA_37:   {OP_DATA_37, "OP_DATA_37", 38, classPush},
	OP_DATA_38:   {OP_DATA_38, "OP_DATA_38", 39, classPush},
	OP_DATA_39:   {OP_DATA_39, "OP_DATA_39", 40, classPush},
	OP_DATA_40:   {OP_DATA_40, "OP_DATA_40", 41, classPush},
	OP_DATA_41:   {OP_DATA_41, "OP_DATA_41", 42, classPush},
	OP_DATA_42:   {OP_DATA_42, "OP_DATA_42", 43, classPush},
	OP_DATA_43:   {OP_DATA_43, "OP_DATA_43", 44, classPush},
	OP_DATA_44:   {OP_DATA_44, "OP_DATA_44", 45, classPush},
	OP_DATA_45:   {OP_DATA_45, "OP_DATA_45", 46, classPush},
	OP_DATA_46:   {OP_DATA_46, "OP_DATA_46", 47, classPush},
	OP_DATA_47:   {OP_DATA_47, "OP_DATA_47", 48, classPush},
	OP_DATA_48:   {OP_DATA_48, "OP_DATA_48", 49, classPush},
	OP_DATA_49:   {OP_DATA_49, "OP_DATA_49", 50, classPush},
	OP_DATA_50:   {OP_DATA_50, "OP_DATA_50", 51, classPush},
	OP_DATA_51:   {OP_DATA_51, "OP_DATA_51", 52, classPush},
	OP_DATA_52:   {OP_DATA_52, "OP_DATA_52", 53, classPush},
	OP_DATA_53:   {OP_DATA_53, "OP_DATA_53", 54, classPush},
	OP_DATA_54:   {OP_DATA_54, "OP_DATA_54", 55, classPush},
	OP_DATA_55:   {OP_DATA_55, "OP_DATA_55", 56, classPush},
	OP_DATA_56:   {OP_DATA_56, "OP_DATA_56", 57, classPush},
	OP_DATA_57:   {OP_DATA_57, "OP_DATA_57", 58, classPush},
	OP_DATA_58:   {OP_DATA_58, "OP_DATA_58", 59, classPush},
	OP_DATA_59:   {OP_DATA_59, "OP_DATA_59", 60, classPush},
	OP_DATA_60:   {OP_DATA_60, "OP_DATA_60", 61, classPush},
	OP_DATA_61:   {OP_DATA_61, "OP_DATA_61", 62, classPush},
	OP_DATA_62:   {OP_DATA_62, "OP_DATA_62", 63, classPush},
	OP_DATA_63:   {OP_DATA_63, "OP_DATA_63", 64, classPush},
	OP_DATA_64:   {OP_DATA_64, "OP_DATA_64", 65, classPush},
	OP_DATA_65:   {OP_DATA_65, "OP_DATA_65", 66, classPush},
	OP_DATA_66:   {OP_DATA_66, "OP_DATA_66", 67, classPush},
	OP_DATA_67:   {OP_DATA_67, "OP_DATA_67", 68, classPush},
	OP_DATA_68:   {OP_DATA_68, "OP_DATA_68", 69, classPush},
	OP_DATA_69:   {OP_DATA_69, "OP_DATA_69", 70, classPush},
	OP_DATA_70:   {OP_DATA_70, "OP_DATA_70", 71, classPush},
	OP_DATA_71:   {OP_DATA_71, "OP_DATA_71", 72, classPush},
	OP_DATA_72:   {OP_DATA_72, "OP_DATA_72", 73, classPush},
	OP_DATA_73:   {OP_DATA_73, "OP_DATA_73", 74, classPush},
	OP_DATA_74:   {OP_DATA_74, "OP_DATA_74", 75, classPush},
	OP_DATA_75:   {OP_DATA_75, "OP_DATA_75", 76, classPush},
	OP_PUSHDATA1: {OP_PUSHDATA1, "OP_PUSHDATA1", -1, classPush},
	OP_PUSHDATA2: {OP_PUSHDATA2, "OP_PUSHDATA2", -2, classPush},
	OP_PUSHDATA4: {OP_PUSHDATA4, "OP_PUSHDATA4", -4, classPush},
	OP_1NEGATE:   {OP_1NEGATE, "OP_1NEGATE", 1, classPush},

	// Small integer data push opcodes.
	OP_RESERVED: {OP_RESERVED, "OP_RESERVED", 1, classReserved},
	OP_1:        {OP_1, "OP_1", 1, classPush},
	OP_2:        {OP_2, "OP_2", 1, classPush},
	OP_3:        {OP_3, "OP_3", 1, classPush},
	OP_4:        {OP_4, "OP_4", 1, classPush},
	OP_5:        {OP_5, "OP_5", 1, classPush},
	OP_6:        {OP_6, "OP_6", 1, classPush},
	OP_7:        {OP_7, "OP_7", 1, classPush},
	OP_8:        {OP_8, "OP_8", 1, classPush},
	OP_9:        {OP_9, "OP_9", 1, classPush},
	OP_10:       {OP_10, "OP_10", 1, classPush},
	OP_11:       {OP_11, "OP_11", 1, classPush},
	OP_12:       {OP_12, "OP_12", 1, classPush},
	OP_13:       {OP_13, "OP_13", 1, classPush},
	OP_14:       {OP_14, "OP_14", 1, classPush},
	OP_15:       {OP_15, "OP_15", 1, classPush},
	OP_16:       {OP_16, "OP_16", 1, classPush},

	// Control opcodes.
	OP_NOP:      {OP_NOP, "OP_NOP", 1, classNop},
	OP_VER:      {OP_VER, "OP_VER", 1, classReserved},
	OP_IF:       {OP_IF, "OP_IF", 1, classFlow},
	OP_NOTIF:    {OP_NOTIF, "OP_NOTIF", 1, classFlow},
	OP_VERIF:    {OP_VERIF, "OP_VERIF", 1, classReserved},
	OP_VERNOTIF: {OP_VERNOTIF, "OP_VERNOTIF", 1, classReserved},
	OP_ELSE:     {OP_ELSE, "OP_ELSE", 1, classFlow},
	OP_ENDIF:    {OP_ENDIF, "OP_ENDIF", 1, classFlow},
	OP_VERIFY:   {OP_VERIFY, "OP_VERIFY", 1, classFlow},
	OP_RETURN:   {OP_RETURN, "OP_RETURN", 1, classFlow},

	// Stack opcodes.
	OP_TOALTSTACK:   {OP_TOALTSTACK, "OP_TOALTSTACK", 1, classAltStack},
	OP_FROMALTSTACK: {OP_FROMALTSTACK, "OP_FROMALTSTACK", 1, classAltStack},
	OP_2DROP:        {OP_2DROP, "OP_2DROP", 1, classStack},
	OP_2DUP:         {OP_2DUP, "OP_2DUP", 1, classStack},
	OP_3DUP:         {OP_3DUP, "OP_3DUP", 1, classStack},
	OP_2OVER:        {OP_2OVER, "OP_2OVER", 1, classStack},
	OP_2ROT:         {OP_2ROT, "OP_2ROT", 1, classStack},
	OP_2SWAP:        {OP_2SWAP, "OP_2SWAP", 1, classStack},
	OP_IFDUP:        {OP_IFDUP, "OP_IFDUP", 1, classStack},
	OP_DEPTH:        {OP_DEPTH, "OP_DEPTH", 1, classStack},
	OP_DROP:         {OP_DROP, "OP_DROP", 1, classStack},
	OP_DUP:          {OP_DUP, "OP_DUP", 1, classStack},
	OP_NIP:          {OP_NIP, "OP_NIP", 1, classStack},
	OP_OVER:         {OP_OVER, "OP_OVER", 1, classStack},
	OP_PICK:         {OP_PICK, "OP_PICK", 1, classStack},
	OP_ROLL:         {OP_ROLL, "OP_ROLL", 1, classStack},
	OP_ROT:          {OP_ROT, "OP_ROT", 1, classStack},
	OP_SWAP:         {OP_SWAP, "OP_SWAP", 1, classStack},
	OP_TUCK:         {OP_TUCK, "OP_TUCK", 1, classStack},

	// Splice opcodes.
	OP_CAT:     {OP_CAT, "OP_CAT", 1, classSplice},
	OP_SPLIT:   {OP_SPLIT, "OP_SPLIT", 1, classSplice},
	OP_NUM2BIN: {OP_NUM2BIN, "OP_NUM2BIN", 1, classSplice},
	OP_BIN2NUM: {OP_BIN2NUM, "OP_BIN2NUM", 1, classSplice},
	OP_SIZE:    {OP_SIZE, "OP_SIZE", 1, classSplice},

	// Bitwise logic opcodes.
	OP_INVERT:      {OP_INVERT, "OP_INVERT", 1, classDisabled},
	OP_AND:         {OP_AND, "OP_AND", 1, classBitwise},
	OP_OR:          {OP_OR, "OP_OR", 1, classBitwise},
	OP_XOR:         {OP_XOR, "OP_XOR", 1, classBitwise},
	OP_EQUAL:       {OP_EQUAL, "OP_EQUAL", 1, classBitwise},
	OP_EQUALVERIFY: {OP_EQUALVERIFY, "OP_EQUALVERIFY", 1, classBitwise},
	OP_RESERVED1:   {OP_RESERVED1, "OP_RESERVED1", 1, classReserved},
	OP_RESERVED2:   {OP_RESERVED2, "OP_RESERVED2", 1, classReserved},

	// Numeric related opcodes.
	OP_1ADD:               {OP_1ADD, "OP_1ADD", 1, classArithmetic},
	OP_1SUB:               {OP_1SUB, "OP_1SUB", 1, classArithmetic},
	OP_2MUL:               {OP_2MUL, "OP_2MUL", 1, classDisabled},
	OP_2DIV:               {OP_2DIV, "OP_2DIV", 1, classDisabled},
	OP_NEGATE:             {OP_NEGATE, "OP_NEGATE", 1, classArithmetic},
	OP_ABS:                {OP_ABS, "OP_ABS", 1, classArithmetic},
	OP_NOT:                {OP_NOT, "OP_NOT", 1, classArithmetic},
	OP_0NOTEQUAL:          {OP_0NOTEQUAL, "OP_0NOTEQUAL", 1, classArithmetic},
	OP_ADD:                {OP_ADD, "OP_ADD", 1, classArithmetic},
	OP_SUB:                {OP_SUB, "OP_SUB", 1, classArithmetic},
	OP_MUL:                {OP_MUL, "OP_MUL", 1, classDisabled},
	OP_DIV:                {OP_DIV, "OP_DIV", 1, classArithmetic},
	OP_MOD:                {OP_MOD, "OP_MOD", 1, classArithmetic},
	OP_LSHIFT:             {OP_LSHIFT, "OP_LSHIFT", 1, classDisabled},
	OP_RSHIFT:             {OP_RSHIFT, "OP_RSHIFT", 1, classDisabled},
	OP_BOOLAND:            {OP_BOOLAND, "OP_BOOLAND", 1, classArithmetic},
	OP_BOOLOR:             {OP_BOOLOR, "OP_BOOLOR", 1, classArithmetic},
	OP_NUMEQUAL:           {OP_NUMEQUAL, "OP_NUMEQUAL", 1, classArithmetic},
	OP_NUMEQUALVERIFY:     {OP_NUMEQUALVERIFY, "OP_NUMEQUALVERIFY", 1, classArithmetic},
	OP_NUMNOTEQUAL:        {OP_NUMNOTEQUAL, "OP_NUMNOTEQUAL", 1, classArithmetic},
	OP_LESSTHAN:           {OP_LESSTHAN, "OP_LESSTHAN", 1, classArithmetic},
	OP_GREATERTHAN:        {OP_GREATERTHAN, "OP_GREATERTHAN", 1, classArithmetic},
	OP_LESSTHANOREQUAL:    {OP_LESSTHANOREQUAL, "OP_LESSTHANOREQUAL", 1, classArithmetic},
	OP_GREATERTHANOREQUAL: {OP_GREATERTHANOREQUAL, "OP_GREATERTHANOREQUAL", 1, classArithmetic},
	OP_MIN:                {OP_MIN, "OP_MIN", 1, classArithmetic},
	OP_MAX:                {OP_MAX, "OP_MAX", 1, classArithmetic},
	OP_WITHIN:             {OP_WITHIN, "OP_WITHIN", 1, classArithmetic},

	// Crypto opcodes.
	OP_RIPEMD160:           {OP_RIPEMD160, "OP_RIPEMD160", 1, classCrypto},
	OP_SHA1:                {OP_SHA1, "OP_SHA1", 1, classCrypto},
	OP_SHA256:              {OP_SHA256, "OP_SHA256", 1, classCrypto},
	OP_HASH160:             {OP_HASH160, "OP_HASH160", 1, classCrypto},
	OP_HASH256:             {OP_HASH256, "OP_HASH256", 1, classCrypto},
	OP_CODESEPARATOR:       {OP_CODESEPARATOR, "OP_CODESEPARATOR", 1, classCrypto},
	OP_CHECKSIG:            {OP_CHECKSIG, "OP_CHECKSIG", 1, classSignature},
	OP_CHECKSIGVERIFY:      {OP_CHECKSIGVERIFY, "OP_CHECKSIGVERIFY", 1, classSignature},
	OP_CHECKMULTISIG:       {OP_CHECKMULTISIG, "OP_CHECKMULTISIG", 1, classSignature},
	OP_CHECKMULTISIGVERIFY: {OP_CHECKMULTISIGVERIFY, "OP_CHECKMULTISIGVERIFY", 1, classSignature},

	// Reserved and lock time opcodes.
	OP_NOP1:                {OP_NOP1, "OP_NOP1", 1, classNop},
	OP_CHECKLOCKTIMEVERIFY: {OP_CHECKLOCKTIMEVERIFY, "OP_CHECKLOCKTIMEVERIFY", 1, classLockTime},
	OP_CHECKSEQUENCEVERIFY: {OP_CHECKSEQUENCEVERIFY, "OP_CHECKSEQUENCEVERIFY", 1, classLockTime},
	OP_NOP4:                {OP_NOP4, "OP_NOP4", 1, classNop},
	OP_NOP5:                {OP_NOP5, "OP_NOP5", 1, classNop},
	OP_NOP6:                {OP_NOP6, "OP_NOP6", 1, classNop},
	OP_NOP7:                {OP_NOP7, "OP_NOP7", 1, classNop},
	OP_NOP8:                {OP_NOP8, "OP_NOP8", 1, classNop},
	OP_NOP9:                {OP_NOP9, "OP_NOP9", 1, classNop},
	OP_NOP10:               {OP_NOP10, "OP_NOP10", 1, classNop},

	// Data signature opcodes.
	OP_CHECKDATASIG:       {OP_CHECKDATASIG, "OP_CHECKDATASIG", 1, classSignature},
	OP_CHECKDATASIGVERIFY: {OP_CHECKDATASIGVERIFY, "OP_CHECKDATASIGVERIFY", 1, classSignature},

	// Undefined opcodes.
	OP_UNKNOWN188: {OP_UNKNOWN188, "OP_UNKNOWN188", 1, classInvalid},
	OP_UNKNOWN189: {OP_UNKNOWN189, "OP_UNKNOWN189", 1, classInvalid},
	OP_UNKNOWN190: {OP_UNKNOWN190, "OP_UNKNOWN190", 1, classInvalid},
	OP_UNKNOWN191: {OP_UNKNOWN191, "OP_UNKNOWN191", 1, classInvalid},
	OP_UNKNOWN192: {OP_UNKNOWN192, "OP_UNKNOWN192", 1, classInvalid},
	OP_UNKNOWN193: {OP_UNKNOWN193, "OP_UNKNOWN193", 1, classInvalid},
	OP_UNKNOWN194: {OP_UNKNOWN194, "OP_UNKNOWN194", 1, classInvalid},
	OP_UNKNOWN195: {OP_UNKNOWN195, "OP_UNKNOWN195", 1, classInvalid},
	OP_UNKNOWN196: {OP_UNKNOWN196, "OP_UNKNOWN196", 1, classInvalid},
	OP_UNKNOWN197: {OP_UNKNOWN197, "OP_UNKNOWN197", 1, classInvalid},
	OP_UNKNOWN198: {OP_UNKNOWN198, "OP_UNKNOWN198", 1, classInvalid},
	OP_UNKNOWN199: {OP_UNKNOWN199, "OP_UNKNOWN199", 1, classInvalid},
	OP_UNKNOWN200: {OP_UNKNOWN200, "OP_UNKNOWN200", 1, classInvalid},
	OP_UNKNOWN201: {OP_UNKNOWN201, "OP_UNKNOWN201", 1, classInvalid},
	OP_UNKNOWN202: {OP_UNKNOWN202, "OP_UNKNOWN202", 1, classInvalid},
	OP_UNKNOWN203: {OP_UNKNOWN203, "OP_UNKNOWN203", 1, classInvalid},
	OP_UNKNOWN204: {OP_UNKNOWN204, "OP_UNKNOWN204", 1, classInvalid},
	OP_UNKNOWN205: {OP_UNKNOWN205, "OP_UNKNOWN205", 1, classInvalid},
	OP_UNKNOWN206: {OP_UNKNOWN206, "OP_UNKNOWN206", 1, classInvalid},
	OP_UNKNOWN207: {OP_UNKNOWN207, "OP_UNKNOWN207", 1, classInvalid},
	OP_UNKNOWN208: {OP_UNKNOWN208, "OP_UNKNOWN208", 1, classInvalid},
	OP_UNKNOWN209: {OP_UNKNOWN209, "OP_UNKNOWN209", 1, classInvalid},
	OP_UNKNOWN210: {OP_UNKNOWN210, "OP_UNKNOWN210", 1, classInvalid},
	OP_UNKNOWN211: {OP_UNKNOWN211, "OP_UNKNOWN211", 1, classInvalid},
	OP_UNKNOWN212: {OP_UNKNOWN212, "OP_UNKNOWN212", 1, classInvalid},
	OP_UNKNOWN213: {OP_UNKNOWN213, "OP_UNKNOWN213", 1, classInvalid},
	OP_UNKNOWN214: {OP_UNKNOWN214, "OP_UNKNOWN214", 1, classInvalid},
	OP_UNKNOWN215: {OP_UNKNOWN215, "OP_UNKNOWN215", 1, classInvalid},
	OP_UNKNOWN216: {OP_UNKNOWN216, "OP_UNKNOWN216", 1, classInvalid},
	OP_UNKNOWN217: {OP_UNKNOWN217, "OP_UNKNOWN217", 1, classInvalid},
	OP_UNKNOWN218: {OP_UNKNOWN218, "OP_UNKNOWN218", 1, classInvalid},
	OP_UNKNOWN219: {OP_UNKNOWN219, "OP_UNKNOWN219", 1, classInvalid},
	OP_UNKNOWN220: {OP_UNKNOWN220, "OP_UNKNOWN220", 1, classInvalid},
	OP_UNKNOWN221: {OP_UNKNOWN221, "OP_UNKNOWN221", 1, classInvalid},
	OP_UNKNOWN222: {OP_UNKNOWN222, "OP_UNKNOWN222", 1, classInvalid},
	OP_UNKNOWN223: {OP_UNKNOWN223, "OP_UNKNOWN223", 1, classInvalid},
	OP_UNKNOWN224: {OP_UNKNOWN224, "OP_UNKNOWN224", 1, classInvalid},
	OP_UNKNOWN225: {OP_UNKNOWN225, "OP_UNKNOWN225", 1, classInvalid},
	OP_UNKNOWN226: {OP_UNKNOWN226, "OP_UNKNOWN226", 1, classInvalid},
	OP_UNKNOWN227: {OP_UNKNOWN227, "OP_UNKNOWN227", 1, classInvalid},
	OP_UNKNOWN228: {OP_UNKNOWN228, "OP_UNKNOWN228", 1, classInvalid},
	OP_UNKNOWN229: {OP_UNKNOWN229, "OP_UNKNOWN229", 1, classInvalid},
	OP_UNKNOWN230: {OP_UNKNOWN230, "OP_UNKNOWN230", 1, classInvalid},
	OP_UNKNOWN231: {OP_UNKNOWN231, "OP_UNKNOWN231", 1, classInvalid},
	OP_UNKNOWN232: {OP_UNKNOWN232, "OP_UNKNOWN232", 1, classInvalid},
	OP_UNKNOWN233: {OP_UNKNOWN233, "OP_UNKNOWN233", 1, classInvalid},
	OP_UNKNOWN234: {OP_UNKNOWN234, "OP_UNKNOWN234", 1, classInvalid},
	OP_UNKNOWN235: {OP_UNKNOWN235, "OP_UNKNOWN235", 1, classInvalid},
	OP_UNKNOWN236: {OP_UNKNOWN236, "OP_UNKNOWN236", 1, classInvalid},
	OP_UNKNOWN237: {OP_UNKNOWN237, "OP_UNKNOWN237", 1, classInvalid},
	OP_UNKNOWN238: {OP_UNKNOWN238, "OP_UNKNOWN238", 1, classInvalid},
	OP_UNKNOWN239: {OP_UNKNOWN239, "OP_UNKNOWN239", 1, classInvalid},
	OP_UNKNOWN240: {OP_UNKNOWN240, "OP_UNKNOWN240", 1, classInvalid},
	OP_UNKNOWN241: {OP_UNKNOWN241, "OP_UNKNOWN241", 1, classInvalid},
	OP_UNKNOWN242: {OP_UNKNOWN242, "OP_UNKNOWN242", 1, classInvalid},
	OP_UNKNOWN243: {OP_UNKNOWN243, "OP_UNKNOWN243", 1, classInvalid},
	OP_UNKNOWN244: {OP_UNKNOWN244, "OP_UNKNOWN244", 1, classInvalid},
	OP_UNKNOWN245: {OP_UNKNOWN245, "OP_UNKNOWN245", 1, classInvalid},
	OP_UNKNOWN246: {OP_UNKNOWN246, "OP_UNKNOWN246", 1, classInvalid},
	OP_UNKNOWN247: {OP_UNKNOWN247, "OP_UNKNOWN247", 1, classInvalid},
	OP_UNKNOWN248: {OP_UNKNOWN248, "OP_UNKNOWN248", 1, classInvalid},
	OP_UNKNOWN249: {OP_UNKNOWN249, "OP_UNKNOWN249", 1, classInvalid},

	// Bitcoin Core internal use opcodes.  Defined here for completeness.
	OP_SMALLINTEGER:  {OP_SMALLINTEGER, "OP_SMALLINTEGER", 1, classInvalid},
	OP_PUBKEYS:       {OP_PUBKEYS, "OP_PUBKEYS", 1, classInvalid},
	OP_UNKNOWN252:    {OP_UNKNOWN252, "OP_UNKNOWN252", 1, classInvalid},
	OP_PUBKEYHASH:    {OP_PUBKEYHASH, "OP_PUBKEYHASH", 1, classInvalid},
	OP_PUBKEY:        {OP_PUBKEY, "OP_PUBKEY", 1, classInvalid},
	OP_INVALIDOPCODE: {OP_INVALIDOPCODE, "OP_INVALIDOPCODE", 1, classInvalid},
}

// opcodeOnelineRepls defines opcode names which are replaced when doing a
// one-line disassembly.  This is done to match the output of the reference
// implementation while not changing the opcode names in the nicer full
// disassembly.
var opcodeOnelineRepls = map[string]string{
	"OP_1NEGATE": "-1",
	"OP_0":       "0",
	"OP_1":       "1",
	"OP_2":       "2",
	"OP_3":       "3",
	"OP_4":       "4",
	"OP_5":       "5",
	"OP_6":       "6",
	"OP_7":       "7",
	"OP_8":       "8",
	"OP_9":       "9",
	"OP_10":      "10",
	"OP_11":      "11",
	"OP_12":      "12",
	"OP_13":      "13",
	"OP_14":      "14",
	"OP_15":      "15",
	"OP_16":      "16",
}

// disasmOpcode writes a human-readable disassembly of the provided opcode and
// data into the provided buffer.  The compact flag indicates the disassembly
// should print a more compact representation of data-carrying and small integer
// opcodes.  For example, OP_0 through OP_16 are replaced with the numeric value
// and data pushes are printed as only the hex representation of the data as
// opposed to including the opcode that specifies the amount of data to push as
// well.
func disasmOpcode(buf *strings.Builder, op *opcode, data []byte, compact bool) {
	// Replace opcode which represent values (e.g. OP_0 through OP_16 and
	// OP_1NEGATE) with the raw value when performing a compact disassembly.
	opcodeName := op.name
	if compact {
		if replName, ok := opcodeOnelineRepls[opcodeName]; ok {
			opcodeName = replName
		}

		// Either write the human-readable opcode or the parsed data in hex for
		// data-carrying opcodes.
		switch {
		case op.length == 1:
			buf.WriteString(opcodeName)

		default:
			buf.WriteString(hex.EncodeToString(data))
		}

		return
	}

	buf.WriteString(opcodeName)

	switch op.length {
	// Only write the opcode name for non-data push opcodes.
	case 1:
		return

	// Add length for the OP_PUSHDATA# opcodes.
	case -1:
		buf.WriteString(fmt.Sprintf(" 0x%02x", len(data)))
	case -2:
		buf.WriteString(fmt.Sprintf(" 0x%04x", len(data)))
	case -4:
		buf.WriteString(fmt.Sprintf(" 0x%08x", len(data)))
	}

	buf.WriteString(fmt.Sprintf(" 0x%02x", data))
}

// isOpcodeAlwaysIllegal returns whether or not the opcode is always illegal
// when passed over by the program counter even if in a non-executed branch.
func isOpcodeAlwaysIllegal(op byte) bool {
	switch op {
	case OP_VERIF:
		return true
	case OP_VERNOTIF:
		return true
	default:
		return false
	}
}

// isOpcodeConditional returns whether or not the opcode is a conditional opcode
// which changes the conditional execution stack when executed.
func isOpcodeConditional(op byte) bool {
	switch op {
	case OP_IF:
		return true
	case OP_NOTIF:
		return true
	case OP_ELSE:
		return true
	case OP_ENDIF:
		return true
	default:
		return false
	}
}

// checkMinimalDataPush returns whether or not the provided opcode is the
// smallest possible way to represent the given data.  For example, the value 15
// could be pushed with OP_DATA_1 15 (among other variations); however, OP_15 is
// a single opcode that represents the same value and is only a single byte
// versus two bytes.
func checkMinimalDataPush(op *opcode, data []byte) error {
	opcodeVal := op.value
	dataLen := len(data)
	switch {
	case dataLen == 0 && opcodeVal != OP_0:
		str := fmt.Sprintf("zero length data push is encoded with opcode %s "+
			"instead of OP_0", op.name)
		return scriptError(ErrMinimalData, str)
	case dataLen == 1 && data[0] >= 1 && data[0] <= 16:
		if opcodeVal != OP_1+data[0]-1 {
			// Should have used OP_1 .. OP_16
			str := fmt.Sprintf("data push of the value %d encoded with opcode "+
				"%s instead of OP_%d", data[0], op.name, data[0])
			return scriptError(ErrMinimalData, str)
		}
	case dataLen == 1 && data[0] == 0x81:
		if opcodeVal != OP_1NEGATE {
			str := fmt.Sprintf("data push of the value -1 encoded with opcode "+
				"%s instead of OP_1NEGATE", op.name)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 75:
		if int(opcodeVal) != dataLen {
			// Should have used a direct push
			str := fmt.Sprintf("data push of %d bytes encoded with opcode %s "+
				"instead of OP_DATA_%d", dataLen, op.name, dataLen)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 255:
		if opcodeVal != OP_PUSHDATA1 {
			str := fmt.Sprintf("data push of %d bytes encoded with opcode %s "+
				"instead of OP_PUSHDATA1", dataLen, op.name)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 65535:
		if opcodeVal != OP_PUSHDATA2 {
			str := fmt.Sprintf("data push of %d bytes encoded with opcode %s "+
				"instead of OP_PUSHDATA2", dataLen, op.name)
			return scriptError(ErrMinimalData, str)
		}
	}
	return nil
}

// dispatchOpcode routes an opcode that is due to run to its handler.  The outer
// switch covers every opcodeClass and each class switches over the opcodes
// the table assigns to it.
func dispatchOpcode(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.class {
	case classPush:
		return opcodePush(op, data, vm)
	case classNop:
		return opcodeNop(op, data, vm)
	case classReserved:
		return opcodeReserved(op, data, vm)
	case classDisabled:
		return opcodeDisabled(op, data, vm)
	case classInvalid:
		return opcodeInvalid(op, data, vm)
	case classFlow:
		return dispatchFlow(op, data, vm)
	case classStack:
		return dispatchStack(op, data, vm)
	case classAltStack:
		return dispatchAltStack(op, data, vm)
	case classSplice:
		return dispatchSplice(op, data, vm)
	case classBitwise:
		return dispatchBitwise(op, data, vm)
	case classArithmetic:
		return dispatchArithmetic(op, data, vm)
	case classCrypto:
		return dispatchCrypto(op, data, vm)
	case classSignature:
		return dispatchSignature(op, data, vm)
	case classLockTime:
		return dispatchLockTime(op, data, vm)
	}

	str := fmt.Sprintf("opcode %s has unknown class %d", op.name, op.class)
	return scriptError(ErrInternal, str)
}

// unhandledOpcode reports a table entry whose class does not handle its value.
func unhandledOpcode(op *opcode) error {
	str := fmt.Sprintf("opcode %s is not handled by class %d", op.name,
		op.class)
	return scriptError(ErrInternal, str)
}

func dispatchFlow(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.value {
	case OP_IF:
		return opcodeIf(op, data, vm)
	case OP_NOTIF:
		return opcodeNotIf(op, data, vm)
	case OP_ELSE:
		return opcodeElse(op, data, vm)
	case OP_ENDIF:
		return opcodeEndif(op, data, vm)
	case OP_VERIFY:
		return opcodeVerify(op, data, vm)
	case OP_RETURN:
		return opcodeReturn(op, data, vm)
	}
	return unhandledOpcode(op)
}

func dispatchStack(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.value {
	case OP_2DROP:
		return vm.dstack.DropN(2)
	case OP_2DUP:
		return vm.dstack.DupN(2)
	case OP_3DUP:
		return vm.dstack.DupN(3)
	case OP_2OVER:
		return vm.dstack.OverN(2)
	case OP_2ROT:
		return vm.dstack.RotN(2)
	case OP_2SWAP:
		return vm.dstack.SwapN(2)
	case OP_IFDUP:
		return opcodeIfDup(op, data, vm)
	case OP_DEPTH:
		vm.dstack.PushInt(scriptNum(vm.dstack.Depth()))
		return nil
	case OP_DROP:
		return vm.dstack.DropN(1)
	case OP_DUP:
		return vm.dstack.DupN(1)
	case OP_NIP:
		return vm.dstack.NipN(1)
	case OP_OVER:
		return vm.dstack.OverN(1)
	case OP_PICK:
		return opcodePick(op, data, vm)
	case OP_ROLL:
		return opcodeRoll(op, data, vm)
	case OP_ROT:
		return vm.dstack.RotN(1)
	case OP_SWAP:
		return vm.dstack.SwapN(1)
	case OP_TUCK:
		return vm.dstack.Tuck()
	}
	return unhandledOpcode(op)
}

func dispatchAltStack(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.value {
	case OP_TOALTSTACK:
		return opcodeToAltStack(op, data, vm)
	case OP_FROMALTSTACK:
		return opcodeFromAltStack(op, data, vm)
	}
	return unhandledOpcode(op)
}

func dispatchSplice(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.value {
	case OP_CAT:
		return opcodeCat(op, data, vm)
	case OP_SPLIT:
		return opcodeSplit(op, data, vm)
	case OP_NUM2BIN:
		return opcodeNum2Bin(op, data, vm)
	case OP_BIN2NUM:
		return opcodeBin2Num(op, data, vm)
	case OP_SIZE:
		return opcodeSize(op, data, vm)
	}
	return unhandledOpcode(op)
}

func dispatchBitwise(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.value {
	case OP_AND, OP_OR, OP_XOR:
		return opcodeBitwise(op, data, vm)
	case OP_EQUAL:
		return opcodeEqual(op, data, vm)
	case OP_EQUALVERIFY:
		return opcodeEqualVerify(op, data, vm)
	}
	return unhandledOpcode(op)
}

func dispatchArithmetic(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.value {
	case OP_1ADD, OP_1SUB, OP_NEGATE, OP_ABS, OP_NOT, OP_0NOTEQUAL:
		return opcodeUnaryNum(op, data, vm)
	case OP_ADD, OP_SUB, OP_DIV, OP_MOD, OP_BOOLAND, OP_BOOLOR,
		OP_NUMEQUAL, OP_NUMNOTEQUAL, OP_LESSTHAN, OP_GREATERTHAN,
		OP_LESSTHANOREQUAL, OP_GREATERTHANOREQUAL, OP_MIN, OP_MAX:

		return opcodeBinaryNum(op, data, vm)
	case OP_NUMEQUALVERIFY:
		return opcodeNumEqualVerify(op, data, vm)
	case OP_WITHIN:
		return opcodeWithin(op, data, vm)
	}
	return unhandledOpcode(op)
}

func dispatchCrypto(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.value {
	case OP_RIPEMD160:
		return opcodeHash(vm, func(buf []byte) []byte {
			return calcHash(buf, ripemd160.New())
		})
	case OP_SHA1:
		return opcodeHash(vm, func(buf []byte) []byte {
			hash := sha1.Sum(buf)
			return hash[:]
		})
	case OP_SHA256:
		return opcodeHash(vm, func(buf []byte) []byte {
			hash := sha256.Sum256(buf)
			return hash[:]
		})
	case OP_HASH160:
		return opcodeHash(vm, btcutil.Hash160)
	case OP_HASH256:
		return opcodeHash(vm, chainhash.DoubleHashB)
	case OP_CODESEPARATOR:
		return opcodeCodeSeparator(op, data, vm)
	}
	return unhandledOpcode(op)
}

func dispatchSignature(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.value {
	case OP_CHECKSIG:
		return opcodeCheckSig(op, data, vm)
	case OP_CHECKSIGVERIFY:
		return opcodeCheckSigVerify(op, data, vm)
	case OP_CHECKMULTISIG:
		return opcodeCheckMultiSig(op, data, vm)
	case OP_CHECKMULTISIGVERIFY:
		return opcodeCheckMultiSigVerify(op, data, vm)
	case OP_CHECKDATASIG:
		return opcodeCheckDataSig(op, data, vm)
	case OP_CHECKDATASIGVERIFY:
		return opcodeCheckDataSigVerify(op, data, vm)
	}
	return unhandledOpcode(op)
}

func dispatchLockTime(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.value {
	case OP_CHECKLOCKTIMEVERIFY:
		return opcodeCheckLockTimeVerify(op, data, vm)
	case OP_CHECKSEQUENCEVERIFY:
		return opcodeCheckSequenceVerify(op, data, vm)
	}
	return unhandledOpcode(op)
}

// *******************************************
// Opcode implementation functions start here.
// *******************************************

// opcodeDisabled is a common handler for disabled opcodes.  It returns an
// appropriate error indicating the opcode is disabled.  While it would
// ordinarily make more sense to detect if the script contains any disabled
// opcodes before executing in an initial parse step, the consensus rules
// dictate the script doesn't fail until the program counter passes over a
// disabled opcode (even when they appear in a branch that is not executed).
func opcodeDisabled(op *opcode, data []byte, vm *ScriptMachine) error {
	str := fmt.Sprintf("attempt to execute disabled opcode %s", op.name)
	return scriptError(ErrDisabledOpcode, str)
}

// opcodeReserved is a common handler for all reserved opcodes.  It returns an
// appropriate error indicating the opcode is reserved.
func opcodeReserved(op *opcode, data []byte, vm *ScriptMachine) error {
	str := fmt.Sprintf("attempt to execute reserved opcode %s", op.name)
	return scriptError(ErrReservedOpcode, str)
}

// opcodeInvalid is a common handler for all undefined opcodes.  It returns an
// appropriate error indicating the opcode is invalid.
func opcodeInvalid(op *opcode, data []byte, vm *ScriptMachine) error {
	str := fmt.Sprintf("attempt to execute invalid opcode %s", op.name)
	return scriptError(ErrBadOpcode, str)
}

// opcodePush is the common handler for every push opcode.  OP_0 pushes an
// empty array, OP_1NEGATE and OP_1 through OP_16 push the number they
// represent, and all other pushes copy their inline data.
func opcodePush(op *opcode, data []byte, vm *ScriptMachine) error {
	switch {
	case op.value == OP_0:
		vm.dstack.PushByteArray(nil)
	case op.value == OP_1NEGATE:
		vm.dstack.PushInt(scriptNum(-1))
	case op.value >= OP_1 && op.value <= OP_16:
		// The opcodes are all defined consecutively, so the numeric value
		// is the difference.
		vm.dstack.PushInt(scriptNum(op.value - (OP_1 - 1)))
	default:
		vm.dstack.PushByteArray(data)
	}
	return nil
}

// opcodeNop is a common handler for the NOP family of opcodes.  As the name
// implies it generally does nothing, however, it will return an error when
// the flag to discourage use of NOPs is set for select opcodes.
func opcodeNop(op *opcode, data []byte, vm *ScriptMachine) error {
	switch op.value {
	case OP_NOP1, OP_NOP4, OP_NOP5,
		OP_NOP6, OP_NOP7, OP_NOP8, OP_NOP9, OP_NOP10:

		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			str := fmt.Sprintf("%v reserved for soft-fork "+
				"upgrades", op.name)
			return scriptError(ErrDiscourageUpgradableNOPs, str)
		}
	}
	return nil
}

// popCondition removes the value tested by OP_IF and OP_NOTIF.  A conditional
// with nothing to test is unbalanced.
func popCondition(op *opcode, vm *ScriptMachine) (bool, error) {
	if vm.dstack.Depth() < 1 {
		str := fmt.Sprintf("opcode %s requires a value to test but the "+
			"stack is empty", op.name)
		return false, scriptError(ErrUnbalancedConditional, str)
	}
	return vm.dstack.PopBool()
}

// opcodeIf treats the top item on the data stack as a boolean and removes it.
//
// An appropriate entry is added to the conditional stack depending on whether
// the boolean is true and whether this if is on an executing branch in order
// to allow proper execution of further opcodes depending on the conditional
// logic.  When the boolean is true, the first branch will be executed (unless
// this opcode is nested in a non-executed branch).
//
// <expression> if [statements] [else [statements]] endif
//
// Note that, unlike for all non-conditional opcodes, this is executed even when
// it is on a non-executing branch so proper nesting is maintained.
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeIf(op *opcode, data []byte, vm *ScriptMachine) error {
	condVal := OpCondFalse
	if vm.isBranchExecuting() {
		ok, err := popCondition(op, vm)
		if err != nil {
			return err
		}

		if ok {
			condVal = OpCondTrue
		}
	} else {
		condVal = OpCondSkip
	}
	vm.condStack = append(vm.condStack, condVal)
	return nil
}

// opcodeNotIf is the inverse of opcodeIf: the first branch is executed when
// the boolean is false.
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeNotIf(op *opcode, data []byte, vm *ScriptMachine) error {
	condVal := OpCondFalse
	if vm.isBranchExecuting() {
		ok, err := popCondition(op, vm)
		if err != nil {
			return err
		}

		if !ok {
			condVal = OpCondTrue
		}
	} else {
		condVal = OpCondSkip
	}
	vm.condStack = append(vm.condStack, condVal)
	return nil
}

// opcodeElse inverts conditional execution for other half of if/else/endif.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [... !OpCondValue]
func opcodeElse(op *opcode, data []byte, vm *ScriptMachine) error {
	if len(vm.condStack) == 0 {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution", op.name)
		return scriptError(ErrUnbalancedConditional, str)
	}

	conditionalIdx := len(vm.condStack) - 1
	switch vm.condStack[conditionalIdx] {
	case OpCondTrue:
		vm.condStack[conditionalIdx] = OpCondFalse
	case OpCondFalse:
		vm.condStack[conditionalIdx] = OpCondTrue
	case OpCondSkip:
		// Value doesn't change in skip since it indicates this opcode
		// is nested in a non-executed branch.
	}
	return nil
}

// opcodeEndif terminates a conditional block, removing the value from the
// conditional execution stack.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [...]
func opcodeEndif(op *opcode, data []byte, vm *ScriptMachine) error {
	if len(vm.condStack) == 0 {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution", op.name)
		return scriptError(ErrUnbalancedConditional, str)
	}

	vm.condStack = vm.condStack[:len(vm.condStack)-1]
	return nil
}

// abstractVerify examines the top item on the data stack as a boolean value and
// verifies it evaluates to true.  An error is returned either when there is no
// item on the stack or when that item evaluates to false.  In the latter case
// where the verification fails specifically due to the top item evaluating
// to false, the returned error will use the passed error code.
func abstractVerify(op *opcode, vm *ScriptMachine, c ErrorCode) error {
	verified, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}

	if !verified {
		str := fmt.Sprintf("%s failed", op.name)
		return scriptError(c, str)
	}
	return nil
}

// opcodeVerify examines the top item on the data stack as a boolean value and
// verifies it evaluates to true.  An error is returned if it does not.
func opcodeVerify(op *opcode, data []byte, vm *ScriptMachine) error {
	return abstractVerify(op, vm, ErrVerify)
}

// opcodeReturn returns an appropriate error since it is always an error to
// return early from a script.
func opcodeReturn(op *opcode, data []byte, vm *ScriptMachine) error {
	return scriptError(ErrEarlyReturn, "script returned early")
}

// verifyLockTime is a helper function used to validate locktimes.
func verifyLockTime(txLockTime, threshold, lockTime int64) error {
	// The lockTimes in both the script and transaction must be of the same
	// type.
	if !((txLockTime < threshold && lockTime < threshold) ||
		(txLockTime >= threshold && lockTime >= threshold)) {
		str := fmt.Sprintf("mismatched locktime types -- tx locktime "+
			"%d, stack locktime %d", txLockTime, lockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	if lockTime > txLockTime {
		str := fmt.Sprintf("locktime requirement not satisfied -- "+
			"locktime is greater than the transaction locktime: "+
			"%d > %d", lockTime, txLockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	return nil
}

// opcodeCheckLockTimeVerify compares the top item on the data stack to the
// LockTime field of the transaction containing the script signature
// validating if the transaction outputs are spendable yet.  If flag
// ScriptVerifyCheckLockTimeVerify is not set, the code continues as if OP_NOP2
// were executed.
func opcodeCheckLockTimeVerify(op *opcode, data []byte, vm *ScriptMachine) error {
	// If the ScriptVerifyCheckLockTimeVerify script flag is not set, treat
	// opcode as OP_NOP2 instead.
	if !vm.hasFlag(ScriptVerifyCheckLockTimeVerify) {
		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			return scriptError(ErrDiscourageUpgradableNOPs,
				"OP_NOP2 reserved for soft-fork upgrades")
		}
		return nil
	}

	// The current transaction locktime is a uint32 resulting in a maximum
	// locktime of 2^32-1 (the year 2106).  However, scriptNums are signed
	// and therefore a standard 4-byte scriptNum would only support up to a
	// maximum of 2^31-1 (the year 2038).  Thus, a 5-byte scriptNum is used
	// here since it will support up to 2^39-1 which allows dates beyond the
	// current locktime limit.
	//
	// PeekByteArray is used here instead of PeekInt because we do not want
	// to be limited to a 4-byte integer for reasons specified above.
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	lockTime, err := makeScriptNum(so, vm.dstack.verifyMinimalData, 5)
	if err != nil {
		return err
	}

	// In the rare event that the argument needs to be < 0 due to some
	// arithmetic being done first, you can always use
	// 0 OP_MAX OP_CHECKLOCKTIMEVERIFY.
	if lockTime < 0 {
		str := fmt.Sprintf("negative lock time: %d", lockTime)
		return scriptError(ErrNegativeLockTime, str)
	}

	if vm.ctx == nil {
		return scriptError(ErrUnsatisfiedLockTime,
			"no transaction to check the lock time against")
	}
	tx := vm.ctx.tx

	// The lock time field of a transaction is either a block height at
	// which the transaction is finalized or a timestamp depending on if the
	// value is before the txscript.LockTimeThreshold.  When it is under the
	// threshold it is a block height.
	err = verifyLockTime(int64(tx.LockTime), LockTimeThreshold,
		int64(lockTime))
	if err != nil {
		return err
	}

	// The lock time feature can also be disabled, thereby bypassing
	// OP_CHECKLOCKTIMEVERIFY, if every transaction input has been finalized by
	// setting its sequence to the maximum value (wire.MaxTxInSequenceNum).  This
	// condition would result in the transaction being allowed into the blockchain
	// making the opcode ineffective.
	//
	// This condition is prevented by enforcing that the input being used by
	// the opcode is unlocked (its sequence number is less than the max
	// value).  This is sufficient to prove correctness without having to
	// check every input.
	//
	// NOTE: This implies that even if the transaction is not finalized due to
	// another input being unlocked, the opcode execution will still fail when the
	// input being used by the opcode is locked.
	if tx.TxIn[vm.ctx.idx].Sequence == wire.MaxTxInSequenceNum {
		return scriptError(ErrUnsatisfiedLockTime,
			"transaction input is finalized")
	}

	return nil
}

// opcodeCheckSequenceVerify compares the top item on the data stack to the
// LockTime field of the transaction containing the script signature
// validating if the transaction outputs are spendable yet.  If flag
// ScriptVerifyCheckSequenceVerify is not set, the code continues as if OP_NOP3
// were executed.
func opcodeCheckSequenceVerify(op *opcode, data []byte, vm *ScriptMachine) error {
	// If the ScriptVerifyCheckSequenceVerify script flag is not set, treat
	// opcode as OP_NOP3 instead.
	if !vm.hasFlag(ScriptVerifyCheckSequenceVerify) {
		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			return scriptError(ErrDiscourageUpgradableNOPs,
				"OP_NOP3 reserved for soft-fork upgrades")
		}
		return nil
	}

	// The current transaction sequence is a uint32 resulting in a maximum
	// sequence of 2^32-1.  However, scriptNums are signed and therefore a
	// standard 4-byte scriptNum would only support up to a maximum of
	// 2^31-1.  Thus, a 5-byte scriptNum is used here since it will support
	// up to 2^39-1 which allows sequences beyond the current sequence
	// limit.
	//
	// PeekByteArray is used here instead of PeekInt because we do not want
	// to be limited to a 4-byte integer for reasons specified above.
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	stackSequence, err := makeScriptNum(so, vm.dstack.verifyMinimalData, 5)
	if err != nil {
		return err
	}

	// In the rare event that the argument needs to be < 0 due to some
	// arithmetic being done first, you can always use
	// 0 OP_MAX OP_CHECKSEQUENCEVERIFY.
	if stackSequence < 0 {
		str := fmt.Sprintf("negative sequence: %d", stackSequence)
		return scriptError(ErrNegativeLockTime, str)
	}

	sequence := int64(stackSequence)

	// To provide for future soft-fork extensibility, if the
	// operand has the disabled lock-time flag set,
	// CHECKSEQUENCEVERIFY behaves as a NOP.
	if sequence&int64(wire.SequenceLockTimeDisabled) != 0 {
		return nil
	}

	if vm.ctx == nil {
		return scriptError(ErrUnsatisfiedLockTime,
			"no transaction to check the sequence against")
	}
	tx := vm.ctx.tx

	// Transaction version numbers not high enough to trigger CSV rules must
	// fail.
	if tx.Version < 2 {
		str := fmt.Sprintf("invalid transaction version: %d",
			tx.Version)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	// Sequence numbers with their most significant bit set are not
	// consensus constrained. Testing that the transaction's sequence
	// number does not have this bit set prevents using this property
	// to get around a CHECKSEQUENCEVERIFY check.
	txSequence := int64(tx.TxIn[vm.ctx.idx].Sequence)
	if txSequence&int64(wire.SequenceLockTimeDisabled) != 0 {
		str := fmt.Sprintf("transaction sequence has sequence "+
			"locktime disabled bit set: 0x%x", txSequence)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	// Mask off non-consensus bits before doing comparisons.
	lockTimeMask := int64(wire.SequenceLockTimeIsSeconds |
		wire.SequenceLockTimeMask)
	return verifyLockTime(txSequence&lockTimeMask,
		wire.SequenceLockTimeIsSeconds, sequence&lockTimeMask)
}

// opcodeToAltStack removes the top item from the main data stack and pushes it
// onto the alternate data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2 y3 x3]
func opcodeToAltStack(op *opcode, data []byte, vm *ScriptMachine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.astack.PushByteArray(so)

	return nil
}

// opcodeFromAltStack removes the top item from the alternate data stack and
// pushes it onto the main data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 y3]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2]
func opcodeFromAltStack(op *opcode, data []byte, vm *ScriptMachine) error {
	so, err := vm.astack.PopByteArray()
	if err != nil {
		str := fmt.Sprintf("%s requires a non-empty alternate stack",
			op.name)
		return scriptError(ErrInvalidAltStackOperation, str)
	}
	vm.dstack.PushByteArray(so)

	return nil
}

// opcodeIfDup duplicates the top item of the stack if it is not zero.
//
// Stack transformation (x1==0): [... x1] -> [... x1]
// Stack transformation (x1!=0): [... x1] -> [... x1 x1]
func opcodeIfDup(op *opcode, data []byte, vm *ScriptMachine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	// Push copy of data iff it isn't zero
	if asBool(so) {
		vm.dstack.PushByteArray(so)
	}

	return nil
}

// opcodePick treats the top item on the data stack as an integer and duplicates
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [xn ... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x1 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x2 x1 x0 x2]
func opcodePick(op *opcode, data []byte, vm *ScriptMachine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.PickN(val.Int32())
}

// opcodeRoll treats the top item on the data stack as an integer and moves
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x1 x0 x2]
func opcodeRoll(op *opcode, data []byte, vm *ScriptMachine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.RollN(val.Int32())
}

// opcodeCat concatenates the top two items.
//
// Stack transformation: [... x1 x2] -> [... x1||x2]
func opcodeCat(op *opcode, data []byte, vm *ScriptMachine) error {
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(a)+len(b) > MaxScriptElementSize {
		str := fmt.Sprintf("concatenated size %d exceeds the max "+
			"allowed size %d", len(a)+len(b), MaxScriptElementSize)
		return scriptError(ErrElementTooBig, str)
	}

	// Items may alias the script, so the result always gets fresh storage.
	cat := make([]byte, 0, len(a)+len(b))
	cat = append(cat, a...)
	cat = append(cat, b...)
	vm.dstack.PushByteArray(cat)
	return nil
}

// opcodeSplit splits the second-to-top item at the position given by the top
// item.
//
// Stack transformation: [... x n] -> [... x[:n] x[n:]]
func opcodeSplit(op *opcode, data []byte, vm *ScriptMachine) error {
	n, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if n < 0 || int(n) > len(so) {
		str := fmt.Sprintf("split position %d is outside of an item "+
			"of %d bytes", n, len(so))
		return scriptError(ErrInvalidSplitRange, str)
	}

	vm.dstack.PushByteArray(append([]byte(nil), so[:n]...))
	vm.dstack.PushByteArray(append([]byte(nil), so[n:]...))
	return nil
}

// opcodeNum2Bin converts a number into a byte sequence of the requested size,
// moving the sign bit to the last byte.
//
// Stack transformation: [... num size] -> [... bin]
func opcodeNum2Bin(op *opcode, data []byte, vm *ScriptMachine) error {
	n, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if n < 0 || n > MaxScriptElementSize {
		str := fmt.Sprintf("requested size %d is outside of [0, %d]",
			n, MaxScriptElementSize)
		return scriptError(ErrElementTooBig, str)
	}
	size := int(n)

	num := minimallyEncode(append([]byte(nil), so...))
	if len(num) > size {
		str := fmt.Sprintf("value %x does not fit in %d bytes", so, size)
		return scriptError(ErrImpossibleEncoding, str)
	}

	bin := make([]byte, size)
	copy(bin, num)
	if len(num) > 0 && len(num) < size {
		// Move the sign bit to the new most significant byte.
		signBit := num[len(num)-1] & 0x80
		bin[len(num)-1] &= 0x7f
		bin[size-1] = signBit
	}
	vm.dstack.PushByteArray(bin)
	return nil
}

// opcodeBin2Num converts a byte sequence into its minimal numeric encoding,
// which must fit a numeric operand.
//
// Stack transformation: [... bin] -> [... num]
func opcodeBin2Num(op *opcode, data []byte, vm *ScriptMachine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	num := minimallyEncode(append([]byte(nil), so...))
	if len(num) > maxScriptNumLen {
		str := fmt.Sprintf("value %x is larger than %d bytes", so,
			maxScriptNumLen)
		return scriptError(ErrInvalidNumberRange, str)
	}
	vm.dstack.PushByteArray(num)
	return nil
}

// opcodeSize pushes the size of the top item of the data stack onto the data
// stack.
//
// Stack transformation: [... x1] -> [... x1 len(x1)]
func opcodeSize(op *opcode, data []byte, vm *ScriptMachine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(len(so)))
	return nil
}

// opcodeBitwise applies OP_AND, OP_OR or OP_XOR to two items of equal length.
//
// Stack transformation: [... x1 x2] -> [... x1 op x2]
func opcodeBitwise(op *opcode, data []byte, vm *ScriptMachine) error {
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(a) != len(b) {
		str := fmt.Sprintf("%s operands have different sizes %d and %d",
			op.name, len(a), len(b))
		return scriptError(ErrInvalidOperandSize, str)
	}

	result := make([]byte, len(a))
	for i := range a {
		switch op.value {
		case OP_AND:
			result[i] = a[i] & b[i]
		case OP_OR:
			result[i] = a[i] | b[i]
		case OP_XOR:
			result[i] = a[i] ^ b[i]
		}
	}
	vm.dstack.PushByteArray(result)
	return nil
}

// opcodeEqual removes the top 2 items of the data stack, compares them as raw
// bytes, and pushes the result, encoded as a boolean, back to the stack.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeEqual(op *opcode, data []byte, vm *ScriptMachine) error {
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(bytes.Equal(a, b))
	return nil
}

// opcodeEqualVerify is a combination of opcodeEqual and opcodeVerify.
// Specifically, it removes the top 2 items of the data stack, compares them,
// and pushes the result, encoded as a boolean, back to the stack.  Then, it
// examines the top item on the data stack as a boolean value and verifies it
// evaluates to true.  An error is returned if it does not.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeEqualVerify(op *opcode, data []byte, vm *ScriptMachine) error {
	err := opcodeEqual(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrEqualVerify)
	}
	return err
}

// opcodeUnaryNum applies a single operand numeric opcode to the top item.
//
// Stack transformation: [... x1] -> [... f(x1)]
func opcodeUnaryNum(op *opcode, data []byte, vm *ScriptMachine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	switch op.value {
	case OP_1ADD:
		m++
	case OP_1SUB:
		m--
	case OP_NEGATE:
		m = -m
	case OP_ABS:
		if m < 0 {
			m = -m
		}
	case OP_NOT:
		if m == 0 {
			m = 1
		} else {
			m = 0
		}
	case OP_0NOTEQUAL:
		if m != 0 {
			m = 1
		}
	}

	vm.dstack.PushInt(m)
	return nil
}

// boolNum converts a comparison result into the number pushed for it.
func boolNum(v bool) scriptNum {
	if v {
		return 1
	}
	return 0
}

// opcodeBinaryNum applies a two operand numeric opcode.  The top item is the
// second operand.
//
// Stack transformation: [... x1 x2] -> [... f(x1, x2)]
func opcodeBinaryNum(op *opcode, data []byte, vm *ScriptMachine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	var result scriptNum
	switch op.value {
	case OP_ADD:
		result = v1 + v0
	case OP_SUB:
		result = v1 - v0
	case OP_DIV:
		if v0 == 0 {
			return scriptError(ErrDivByZero, "division by zero")
		}
		result = v1 / v0
	case OP_MOD:
		if v0 == 0 {
			return scriptError(ErrModByZero, "modulo by zero")
		}
		result = v1 % v0
	case OP_BOOLAND:
		result = boolNum(v0 != 0 && v1 != 0)
	case OP_BOOLOR:
		result = boolNum(v0 != 0 || v1 != 0)
	case OP_NUMEQUAL:
		result = boolNum(v0 == v1)
	case OP_NUMNOTEQUAL:
		result = boolNum(v0 != v1)
	case OP_LESSTHAN:
		result = boolNum(v1 < v0)
	case OP_GREATERTHAN:
		result = boolNum(v1 > v0)
	case OP_LESSTHANOREQUAL:
		result = boolNum(v1 <= v0)
	case OP_GREATERTHANOREQUAL:
		result = boolNum(v1 >= v0)
	case OP_MIN:
		result = v1
		if v0 < v1 {
			result = v0
		}
	case OP_MAX:
		result = v1
		if v0 > v1 {
			result = v0
		}
	}

	vm.dstack.PushInt(result)
	return nil
}

// opcodeNumEqualVerify is a combination of OP_NUMEQUAL and OP_VERIFY.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeNumEqualVerify(op *opcode, data []byte, vm *ScriptMachine) error {
	numEqual := opcodeArray[OP_NUMEQUAL]
	err := opcodeBinaryNum(&numEqual, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrNumEqualVerify)
	}
	return err
}

// opcodeWithin treats the top 3 items on the data stack as integers.  When the
// value to test is within the specified range (left inclusive), 1 is pushed,
// otherwise 0 is pushed.
//
// Stack transformation: [... x1 min max] -> [... bool]
func opcodeWithin(op *opcode, data []byte, vm *ScriptMachine) error {
	maxVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	minVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	x, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(x >= minVal && x < maxVal)
	return nil
}

// calcHash calculates the hash of hasher over buf.
func calcHash(buf []byte, hasher hash.Hash) []byte {
	hasher.Write(buf)
	return hasher.Sum(nil)
}

// opcodeHash replaces the top item with its digest.
//
// Stack transformation: [... x1] -> [... hash(x1)]
func opcodeHash(vm *ScriptMachine, digest func([]byte) []byte) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushByteArray(digest(buf))
	return nil
}

// opcodeCodeSeparator stores the current script offset as the most recently
// seen OP_CODESEPARATOR which is used during signature checking.
//
// This opcode does not change the contents of the data stack.
func opcodeCodeSeparator(op *opcode, data []byte, vm *ScriptMachine) error {
	vm.lastCodeSep = int(vm.tokenizer.ByteIndex())
	return nil
}

// opcodeCheckSig treats the top 2 items on the stack as a public key and a
// signature and replaces them with a bool which indicates if the signature was
// successfully verified.
//
// The process of verifying a signature requires calculating a signature hash in
// the same way the transaction signer did.  It involves hashing portions of the
// transaction based on the hash type byte (which is the final byte of the
// signature) and the portion of the script starting from the most recent
// OP_CODESEPARATOR (or the beginning of the script if there are none) to the
// end of the script.  The fork id of the attached context is committed to as
// part of the hash type.
//
// A machine without a transaction context cannot compute the hash, so every
// non-empty signature it checks is invalid.
//
// Stack transformation: [... signature pubkey] -> [... bool]
func opcodeCheckSig(op *opcode, data []byte, vm *ScriptMachine) error {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	fullSigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	// The signature actually needs needs to be longer than this, but at
	// least 1 byte is needed for the hash type below.  The full length is
	// checked depending on the script flags and upon parsing the signature.
	if len(fullSigBytes) < 1 {
		vm.dstack.PushBool(false)
		return nil
	}

	// Trim off hashtype from the signature string and check if the
	// signature and pubkey conform to the strict encoding requirements
	// depending on the flags.
	hashType := SigHashType(fullSigBytes[len(fullSigBytes)-1])
	sigBytes := fullSigBytes[:len(fullSigBytes)-1]
	if err := vm.checkHashTypeEncoding(hashType); err != nil {
		return err
	}
	if err := vm.checkSignatureEncoding(sigBytes); err != nil {
		return err
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return err
	}

	valid := vm.verifySignature(sigBytes, hashType, pkBytes)
	if !valid && vm.hasFlag(ScriptVerifyNullFail) && len(sigBytes) > 0 {
		str := "signature not empty on failed checksig"
		return scriptError(ErrNullFail, str)
	}

	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckSigVerify is a combination of opcodeCheckSig and opcodeVerify.
// The opcodeCheckSig function is invoked followed by opcodeVerify.  See the
// documentation for each of those opcodes for more details.
//
// Stack transformation: signature pubkey] -> [... bool] -> [...]
func opcodeCheckSigVerify(op *opcode, data []byte, vm *ScriptMachine) error {
	err := opcodeCheckSig(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckSigVerify)
	}
	return err
}

// opcodeCheckMultiSig treats the top item on the stack as an integer number of
// public keys, followed by that many entries as raw data representing the public
// keys, followed by the integer number of signatures, followed by that many
// entries as raw data representing the signatures.
//
// Due to a bug in the original Satoshi client implementation, an additional
// dummy argument is also required by the consensus rules, although it is not
// used.  The dummy value SHOULD be an OP_0, although that is not required by
// the consensus rules.  When the ScriptVerifyNullDummy flag is set, it must be
// OP_0.
//
// All of the aforementioned stack items are replaced with a bool which
// indicates if the requisite number of signatures were successfully verified.
//
// See the opcodeCheckSigVerify documentation for more details about the process
// for verifying each signature.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool]
func opcodeCheckMultiSig(op *opcode, data []byte, vm *ScriptMachine) error {
	numKeys, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	numPubKeys := int(numKeys.Int32())
	if numPubKeys < 0 {
		str := fmt.Sprintf("number of pubkeys %d is negative",
			numPubKeys)
		return scriptError(ErrInvalidPubKeyCount, str)
	}
	if numPubKeys > MaxPubKeysPerMultiSig {
		str := fmt.Sprintf("too many pubkeys: %d > %d",
			numPubKeys, MaxPubKeysPerMultiSig)
		return scriptError(ErrInvalidPubKeyCount, str)
	}
	vm.numOps += numPubKeys
	if vm.numOps > MaxOpsPerScript {
		str := fmt.Sprintf("exceeded max operation limit of %d",
			MaxOpsPerScript)
		return scriptError(ErrTooManyOperations, str)
	}

	pubKeys := make([][]byte, 0, numPubKeys)
	for i := 0; i < numPubKeys; i++ {
		pubKey, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		pubKeys = append(pubKeys, pubKey)
	}

	numSigs, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	numSignatures := int(numSigs.Int32())
	if numSignatures < 0 {
		str := fmt.Sprintf("number of signatures %d is negative",
			numSignatures)
		return scriptError(ErrInvalidSignatureCount, str)

	}
	if numSignatures > numPubKeys {
		str := fmt.Sprintf("more signatures than pubkeys: %d > %d",
			numSignatures, numPubKeys)
		return scriptError(ErrInvalidSignatureCount, str)
	}

	signatures := make([][]byte, 0, numSignatures)
	for i := 0; i < numSignatures; i++ {
		signature, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		signatures = append(signatures, signature)
	}

	// A bug in the original Satoshi client implementation means one more
	// stack value than should be used must be popped.  Unfortunately, this
	// buggy behavior is now part of the consensus and a hard fork would be
	// required to fix it.
	dummy, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	// Since the dummy argument is otherwise not checked, it could be any
	// value which unfortunately provides a source of malleability.  Thus,
	// there is a script flag to force an error when the value is NOT 0.
	if vm.hasFlag(ScriptVerifyNullDummy) && len(dummy) != 0 {
		str := fmt.Sprintf("multisig dummy argument has length %d "+
			"instead of 0", len(dummy))
		return scriptError(ErrSigNullDummy, str)
	}

	success := true
	numPubKeys++
	pubKeyIdx := -1
	signatureIdx := 0
	for numSignatures > 0 {
		// When there are more signatures than public keys remaining,
		// there is no way to succeed since too many signatures are
		// invalid, so exit early.
		pubKeyIdx++
		numPubKeys--
		if numSignatures > numPubKeys {
			success = false
			break
		}

		rawSig := signatures[signatureIdx]
		pubKey := pubKeys[pubKeyIdx]

		// The order of the signature and public key evaluation is
		// important here since it can be distinguished by an
		// OP_CHECKMULTISIG NOT when the strict encoding flag is set.

		// Skip to the next pubkey if the signature is empty.
		if len(rawSig) == 0 {
			continue
		}

		// Split the signature into hash type and signature components.
		hashType := SigHashType(rawSig[len(rawSig)-1])
		signature := rawSig[:len(rawSig)-1]

		// Only parse and check the signature encoding once.
		if err := vm.checkHashTypeEncoding(hashType); err != nil {
			return err
		}
		if err := vm.checkSignatureEncoding(signature); err != nil {
			return err
		}
		if err := vm.checkPubKeyEncoding(pubKey); err != nil {
			return err
		}

		if vm.verifySignature(signature, hashType, pubKey) {
			// PubKey verified, move on to the next signature.
			signatureIdx++
			numSignatures--
		}
	}

	if !success && vm.hasFlag(ScriptVerifyNullFail) {
		for _, sig := range signatures {
			if len(sig) > 0 {
				str := "not all signatures empty on failed " +
					"checkmultisig"
				return scriptError(ErrNullFail, str)
			}
		}
	}

	vm.dstack.PushBool(success)
	return nil
}

// opcodeCheckMultiSigVerify is a combination of opcodeCheckMultiSig and
// opcodeVerify.  The opcodeCheckMultiSig is invoked followed by opcodeVerify.
// See the documentation for each of those opcodes for more details.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool] -> [...]
func opcodeCheckMultiSigVerify(op *opcode, data []byte, vm *ScriptMachine) error {
	err := opcodeCheckMultiSig(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckMultiSigVerify)
	}
	return err
}

// checkDataSig pops a signature, a message and a public key and reports
// whether the signature is valid for the single SHA256 of the message.  The
// signature carries no hash type byte and no transaction is involved.
func checkDataSig(vm *ScriptMachine) (bool, error) {
	if vm.dstack.Depth() < 3 {
		str := fmt.Sprintf("data signature check requires 3 items, "+
			"stack has %d", vm.dstack.Depth())
		return false, scriptError(ErrInvalidStackOperation, str)
	}

	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return false, err
	}
	msg, err := vm.dstack.PopByteArray()
	if err != nil {
		return false, err
	}
	sigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return false, err
	}

	if err := vm.checkSignatureEncoding(sigBytes); err != nil {
		return false, err
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return false, err
	}

	valid := false
	if len(sigBytes) > 0 {
		digest := sha256.Sum256(msg)
		valid = verifyECDSA(sigBytes, pkBytes, digest[:], vm.flags)
	}
	if !valid && vm.hasFlag(ScriptVerifyNullFail) && len(sigBytes) > 0 {
		str := "signature not empty on failed checkdatasig"
		return false, scriptError(ErrNullFail, str)
	}
	return valid, nil
}

// opcodeCheckDataSig verifies a signature over an arbitrary message.
//
// Stack transformation: [... signature message pubkey] -> [... bool]
func opcodeCheckDataSig(op *opcode, data []byte, vm *ScriptMachine) error {
	valid, err := checkDataSig(vm)
	if err != nil {
		return err
	}
	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckDataSigVerify is OP_CHECKDATASIG followed by OP_VERIFY.
//
// Stack transformation: [... signature message pubkey] -> [...]
func opcodeCheckDataSigVerify(op *opcode, data []byte, vm *ScriptMachine) error {
	valid, err := checkDataSig(vm)
	if err != nil {
		return err
	}
	if !valid {
		str := fmt.Sprintf("%s failed", op.name)
		return scriptError(ErrCheckDataSigVerify, str)
	}
	return nil
}

// OpcodeByName is a map that can be used to lookup an opcode by its
// human-readable name (OP_CHECKMULTISIG, OP_CHECKSIG, etc).
var OpcodeByName = make(map[string]byte)

func init() {
	// Initialize the opcode name to value map using the contents of the
	// opcode array.  Also add entries for "OP_FALSE", "OP_TRUE", "OP_NOP2"
	// and "OP_NOP3" since they are aliases for "OP_0", "OP_1",
	// "OP_CHECKLOCKTIMEVERIFY" and "OP_CHECKSEQUENCEVERIFY" respectively.
	for _, op := range opcodeArray {
		OpcodeByName[op.name] = op.value
	}
	OpcodeByName["OP_FALSE"] = OP_FALSE
	OpcodeByName["OP_TRUE"] = OP_TRUE
	OpcodeByName["OP_NOP2"] = OP_CHECKLOCKTIMEVERIFY
	OpcodeByName["OP_NOP3"] = OP_CHECKSEQUENCEVERIFY
}
