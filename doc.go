// Package backoff calculates retry delays using capped exponential backoff with full jitter.
//
// Before retrying a failed operation the caller sleeps for a random number of
// milliseconds between 0 and the lesser of the backoff window and a configured
// maximum. The window doubles with every attempt:
//
//	sleep_ms = random_between(0, min(2^attempts * base_ms, max_ms))
//
// The package never sleeps and never performs I/O. Randomness comes from a
// caller supplied [RandomFunc].
//
// See the article for reference: [Reference]
//
// [Reference]: https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter/
package backoff
