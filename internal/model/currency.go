package model

import "time"

type Currency struct {
	ID        int64
	GameID    int64
	Title     string
	Category  *string
	Counts    int
	Timestamp time.Time
}

type TimeseriesBucket struct {
	Date  time.Time
	Count int
}

type CurrencyTimeseries struct {
	Title    string
	Buckets  []TimeseriesBucket
	FromDate time.Time
	ToDate   time.Time
}
