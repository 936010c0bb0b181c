package testutil

import (
	"encoding/hex"
	"strings"
)

// Golden vectors produced by the reference tool with the reference key triple
// and hash length 16.
var Vectors = struct {
	// ZeroRecord: подпись 184 нулевых байт.
	ZeroRecord string
	// SeqRecord: подпись payload[i] = i, i < 184.
	SeqRecord string

	// CMCKey / CMCCipher: один CMC super-block, plain[i] = i*7+3.
	CMCKey    string
	CMCCipher string

	// Ключи CMC, выведенные из clear prefix.
	ZeroPrefixKey string
	SeqPrefixKey  string
}{
	ZeroRecord: "0000000000000000" +
		"90663039997fc4a9ae7e5ab6ae261d92ca8e541e108c08ba3dfba728618828bb" +
		"82446e92027f79315042bf5b8d498de6dcbf441377a2d30c181c911d761a269b" +
		"ea5b55eff07d8f62869d00c03801694d80b5a6b43332c793b1162bdc550a8e18" +
		"9f1ae694bde973502fc010cda32be7807053f0f7edcebbb0b8b6a17808b5d77d" +
		"db2099d21feaf04b894c4669873fee55b097a1dfa1c506ad92ab0b97309805ab" +
		"953d3ee2af4c338dec01becc0b75bbd18bf38278dcc5fb7f022186c4d780ef55",
	SeqRecord: "0001020304050607" +
		"5c8572d780140252435e6332f105ed0d28a094f260c8cb778dba50ed35741840" +
		"ce89dbc89fd35b328822c2a0b3315f6dcce3810e93feab8ccc1ad1220555dc82" +
		"b6c85358fc478bc6c5783cfc1250e87989cbfd5d3908d4938c45a2fc61a3257d" +
		"5ed3a9901a87bed0b0bb55e615eb50ecabe244416c7012b9aacdf5616be33583" +
		"1791e405d159f4ae1304c10d2c3654c69421dc130026a3530600736da84120d9" +
		"43b1b5000060e3b6cec515be52c2f764559bf2243dfc8e632a0e4a2bde064c55",

	CMCKey: "000102030405060708090a0b0c0d0e0f",
	CMCCipher: "7804B290E48FA8883C15F1A8D76C24252D60E509B7B7BFEF1F9E578B3DD6B943" +
		"8B3E7F87A5DC0990F3DF5966AAC0CCB20CDC775BEC86732C4B23E0ACF434A363" +
		"837A151EC05C6E33D4BAB0205D5A903C8F14258E1F058F76F9D92BCB5D7471EB" +
		"25928F18A74D2BB7913362F3412775F46A1F92EC0D2A3E5DEBE69636E7130213" +
		"A356D0D84136602288D3CEE40845B395678E5C2FBA30492A7356788A1DAF0FC7" +
		"08F08D94FEA5ECEEF7F6353494A0DA649B580BE84978C0B1FB3C809CA26B7EE2",

	ZeroPrefixKey: "8eb733e19eaeaf66a4802c3a2f8d2fd1",
	SeqPrefixKey:  "8f21cfdb0ed9aab057c4142618e08c5c",
}

// MustHex декодирует hex (регистр не важен), паникует на ошибке.
func MustHex(s string) []byte {
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		panic("testutil: bad hex: " + err.Error())
	}
	return b
}

// SeqBytes возвращает n байт со значениями i*mul+add.
func SeqBytes(n int, mul, add byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)*mul + add
	}
	return out
}
