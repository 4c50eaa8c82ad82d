package digest

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type DigestTestSuite struct {
	suite.Suite
}

func TestDigestTestSuite(t *testing.T) {
	suite.Run(t, new(DigestTestSuite))
}

func (ts *DigestTestSuite) TestIntsIsDeterministic() {
	a := []int{1, 2, 3, 4, 5}
	b := []int{1, 2, 3, 4, 5}
	ts.Equal(Ints(a), Ints(b))
}

func (ts *DigestTestSuite) TestIntsDiffersOnOrder() {
	a := []int{1, 2, 3}
	b := []int{3, 2, 1}
	ts.NotEqual(Ints(a), Ints(b))
}

func (ts *DigestTestSuite) TestPixelsIsDeterministic() {
	a := []uint32{0xff0000, 0x00ff00}
	b := []uint32{0xff0000, 0x00ff00}
	ts.Equal(Pixels(a), Pixels(b))
}

func (ts *DigestTestSuite) TestStringIsHex() {
	d := Ints([]int{1})
	ts.Len(d.String(), 64) // 32 bytes, 2 hex chars each
}
