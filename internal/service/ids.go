package service

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const recordIDRandomLength = 9

// newRecordID 生成形如 prefix_<毫秒时间戳>_<9位随机串> 的对外记录ID。
func newRecordID(prefix string) (string, error) {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	var builder strings.Builder
	builder.Grow(len(prefix) + 1 + 13 + 1 + recordIDRandomLength)
	builder.WriteString(prefix)
	builder.WriteByte('_')
	builder.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	builder.WriteByte('_')
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < recordIDRandomLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}
	return builder.String(), nil
}
