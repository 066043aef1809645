package handlers

// User-facing notices, Korean like the rest of the UI.
const (
	msgLoginFailed       = "이메일 또는 비밀번호가 올바르지 않습니다."
	msgSignupFailed      = "회원가입에 실패했습니다."
	msgMentorsLoadFailed = "멘토 목록을 불러오는데 실패했습니다."
	msgRequestsLoadFail  = "요청 목록을 불러오는데 실패했습니다."
	msgMenteeOnly        = "멘티만 멘토링을 요청할 수 있습니다."
	msgMessageRequired   = "메시지를 입력해주세요."
	msgRequestFailed     = "요청 전송에 실패했습니다."
	msgAcceptFailed      = "요청 수락에 실패했습니다."
	msgRejectFailed      = "요청 거절에 실패했습니다."
	msgCancelFailed      = "요청 취소에 실패했습니다."
	msgImageType         = "JPG 또는 PNG 형식의 이미지만 업로드 가능합니다."
	msgImageSize         = "이미지 크기는 1MB 이하여야 합니다."
	msgProfileSaveFail   = "프로필 업데이트에 실패했습니다."
)

// Success notices carried across the post-redirect-get hop as a query key,
// never as raw text.
var notices = map[string]string{
	"sent":      "멘토링 요청이 전송되었습니다.",
	"accepted":  "매칭 요청을 수락했습니다.",
	"rejected":  "매칭 요청을 거절했습니다.",
	"cancelled": "요청이 취소되었습니다.",
	"saved":     "프로필이 저장되었습니다.",
}

func noticeFor(key string) string {
	return notices[key]
}
