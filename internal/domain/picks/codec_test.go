package picks_test

import (
	"encoding/base64"
	"testing"

	picks "github.com/rotobot/bracketbuilder/internal/domain/picks"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCodec(t *testing.T) {
	Convey("Given a pick mapping", t, func() {
		m := map[string]string{
			"east-r1-1": "duke",
			"east-r2-1": "duke",
			"west-r1-4": "gonzaga",
		}

		Convey("When encoding and decoding", func() {
			token := picks.Encode(m)
			decoded, err := picks.Decode(token)

			Convey("Then the round trip should be lossless", func() {
				So(err, ShouldBeNil)
				So(decoded, ShouldResemble, m)
			})

			Convey("And the token should be URL-safe", func() {
				So(token, ShouldNotContainSubstring, "+")
				So(token, ShouldNotContainSubstring, "/")
				So(token, ShouldNotContainSubstring, "=")
			})
		})

		Convey("When the same payload arrives with standard padding", func() {
			raw, err := base64.RawURLEncoding.DecodeString(picks.Encode(m))
			So(err, ShouldBeNil)
			padded := base64.StdEncoding.EncodeToString(raw)

			decoded, err := picks.Decode(padded)

			Convey("Then it should still decode", func() {
				So(err, ShouldBeNil)
				So(decoded, ShouldResemble, m)
			})
		})
	})

	Convey("Given degenerate inputs", t, func() {
		Convey("When encoding a nil map", func() {
			token := picks.Encode(nil)
			decoded, err := picks.Decode(token)

			Convey("Then it should round-trip to an empty map", func() {
				So(err, ShouldBeNil)
				So(decoded, ShouldNotBeNil)
				So(decoded, ShouldBeEmpty)
			})
		})

		Convey("When decoding an empty token", func() {
			decoded, err := picks.Decode("")

			Convey("Then it should yield an empty map with no error", func() {
				So(err, ShouldBeNil)
				So(decoded, ShouldNotBeNil)
				So(decoded, ShouldBeEmpty)
			})
		})

		Convey("When decoding garbage", func() {
			decoded, err := picks.Decode("!!!not-base64!!!")

			Convey("Then it should fail soft to an empty map", func() {
				So(err, ShouldNotBeNil)
				So(decoded, ShouldNotBeNil)
				So(decoded, ShouldBeEmpty)
			})
		})

		Convey("When decoding valid base64 wrapping invalid JSON", func() {
			token := base64.RawURLEncoding.EncodeToString([]byte("not json"))
			decoded, err := picks.Decode(token)

			Convey("Then it should fail soft to an empty map", func() {
				So(err, ShouldNotBeNil)
				So(decoded, ShouldNotBeNil)
				So(decoded, ShouldBeEmpty)
			})
		})

		Convey("When decoding a JSON null payload", func() {
			token := base64.RawURLEncoding.EncodeToString([]byte("null"))
			decoded, err := picks.Decode(token)

			Convey("Then it should yield an empty non-nil map", func() {
				So(err, ShouldBeNil)
				So(decoded, ShouldNotBeNil)
				So(decoded, ShouldBeEmpty)
			})
		})
	})
}
