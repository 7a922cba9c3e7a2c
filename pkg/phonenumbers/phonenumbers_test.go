package phonenumbers_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davidleathers/phonenumbers-na/pkg/phonenumbers"
)

func TestFacade(t *testing.T) {
	got := phonenumbers.ExtractPhoneNumbers("Support: 1-888-555-1212, Ottawa 613 555 0199")
	if assert.Len(t, got, 2) {
		assert.Equal(t, phonenumbers.Tollfree, got[0].Type)
		assert.Equal(t, phonenumbers.Canada, got[1].Type)
	}
	assert.True(t, phonenumbers.IsCanadian("613"))
	assert.Equal(t, phonenumbers.Local, phonenumbers.Classify(206, 858, 9310))
}

func ExampleTryParse() {
	p, ok := phonenumbers.TryParse("1800KROGERS")
	fmt.Println(ok, p.NPA, p.Type, p.URI())
	// Output: true 800 Tollfree tel:+1-800-576-4377
}

func ExampleExtractDialedNumbers() {
	text := "+1 206-858-9310\r\n2024561414\r\n(206)858-8757\r\nRandom Gibberish that should be stripped"
	for _, dialed := range phonenumbers.ExtractDialedNumbers(text) {
		fmt.Println(dialed)
	}
	// Output:
	// 2068589310
	// 2024561414
	// 2068588757
}

func ExampleTryParseShortCode() {
	p, ok := phonenumbers.TryParseShortCode("FUNNY")
	fmt.Println(ok, p.DialedNumber, p.Type)
	// Output: true 38669 ShortCode
}
