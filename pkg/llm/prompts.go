package llm

import "fmt"

const summarySystemPrompt = `당신은 개발자를 위한 뉴스 큐레이터입니다. 기술 트렌드와 실무 관련성을 중심으로 간결하게 요약합니다.`

const matchSystemPrompt = `당신은 개발 교육 전문가입니다. 뉴스 내용과 강의의 관련성을 정확하게 판단합니다.`

func summaryUserPrompt(title, description string) string {
	if description == "" {
		description = "(내용 없음)"
	}
	return fmt.Sprintf(`다음 개발 뉴스 기사를 한국어로 2-3문장으로 요약해주세요.
개발자가 왜 이 기사를 읽어야 하는지, 핵심 포인트가 무엇인지 설명하세요.

제목: %s

내용: %s

요약:`, title, description)
}

func matchUserPrompt(title, summary, courseList string) string {
	return fmt.Sprintf(`다음 개발 뉴스와 관련된 강의를 추천해주세요.

뉴스 제목: %s
뉴스 요약: %s

사용 가능한 강의 목록:
%s
위 강의 중에서 이 뉴스와 가장 관련 있는 강의를 최대 2개 선택하고, 관련도 점수(0.0-1.0)를 매겨주세요.
관련성이 0.5 미만이면 추천하지 마세요.

JSON 형식으로만 응답하세요:
{"courses": [{"courseId": "id값", "score": 0.8}, ...]}
관련 강의가 없으면 {"courses": []}을 반환하세요.`, title, summary, courseList)
}
