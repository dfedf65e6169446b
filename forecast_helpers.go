package main

// Helpers for shaping the 3-hour forecast series into the day cards the
// dashboard renders.

// samplesPerDay is how many 3-hour samples make up one forecast "day".
const samplesPerDay = 8

// maxForecastDays caps the number of day buckets served to the dashboard.
const maxForecastDays = 5

// dayBuckets partitions forecast entries into contiguous fixed-size chunks.
// Bucketing is by sample count, not calendar-day boundaries: when the series
// starts at local midnight each bucket spans exactly one day, otherwise the
// buckets drift by the starting offset. That approximation is accepted; the
// day card is labeled from its first sample's date either way.
func dayBuckets(entries []ForecastEntry, size int) [][]ForecastEntry {
	if size <= 0 {
		return nil
	}
	var buckets [][]ForecastEntry
	for i := 0; i < len(entries); i += size {
		end := i + size
		if end > len(entries) {
			end = len(entries)
		}
		buckets = append(buckets, entries[i:end])
		if len(buckets) == maxForecastDays {
			break
		}
	}
	return buckets
}

// highLow returns the highest and lowest sampled temperature in a bucket.
func highLow(bucket []ForecastEntry) (high, low float64) {
	if len(bucket) == 0 {
		return 0, 0
	}
	high, low = bucket[0].Temperature, bucket[0].Temperature
	for _, entry := range bucket[1:] {
		if entry.Temperature > high {
			high = entry.Temperature
		}
		if entry.Temperature < low {
			low = entry.Temperature
		}
	}
	return high, low
}
