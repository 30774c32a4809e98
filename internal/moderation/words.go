package moderation

// The banned-term list, matched by substring containment after
// normalization. Deliberately over-inclusive: a term embedded in a longer
// legitimate word still rejects.
var bannedWords = []string{
	"바보", "멍청이", "병신", "미친", "개새끼", "씨발", "좆", "존나",
	"개놈", "년", "놈", "죽어", "꺼져", "닥쳐", "시발", "개자식",
	"새끼", "븅신", "또라이", "정신병", "장애", "개빡", "개쓰레기",
	"쓰레기", "쪽팔려", "한심", "개못생김", "추남", "추녀", "돼지",
	"뚱보", "개뚱", "개못남", "개못해", "개구림", "개더러워",
}

// Terms are normalized once at init so matching is a plain substring scan.
var normalizedBannedWords = func() []string {
	out := make([]string, len(bannedWords))
	for i, w := range bannedWords {
		out[i] = Normalize(w)
	}
	return out
}()
