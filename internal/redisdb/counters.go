package redisdb

import (
	"log"

	"foodcourt/internal/constants"
)

// NextInvoiceSeq returns the next invoice sequence number for a vendor.
// Counters have no TTL, invoice numbers must never repeat.
func NextInvoiceSeq(vendorID string) (int64, error) {
	seq, err := redisClient.rdb.Incr(ctx, constants.RedisKeyInvoiceSeqPrefix+vendorID).Result()
	if err != nil {
		log.Printf("redisClient.rdb.Incr %s, err: %s", vendorID, err.Error())
		return 0, err
	}
	return seq, nil
}
