package tutor

import "strings"

// cannedRule is a keyword-triggered scripted reply. Rules run against the
// normalized query, so keywords must be written in normalized form
// (folded hamza forms, taa marbuta as haa).
type cannedRule struct {
	// lessonID scopes the rule; empty means it applies to every lesson.
	lessonID string
	match    func(nq string) bool
	text     string
	flyTo    string
}

func anyOf(words ...string) func(string) bool {
	return func(nq string) bool {
		for _, w := range words {
			if strings.Contains(nq, w) {
				return true
			}
		}
		return false
	}
}

func allOf(matchers ...func(string) bool) func(string) bool {
	return func(nq string) bool {
		for _, m := range matchers {
			if !m(nq) {
				return false
			}
		}
		return true
	}
}

var cannedRules = []cannedRule{
	// UI guidance, lesson-independent.
	{
		match: anyOf("نسب", "ارقام", "شارت", "chart", "رسوم", "بيانات"),
		text:  "عندك لوحة (مؤشرات ورسومات) على يمين الشاشة: توزيع الفئات، أكثر الفئات، وزيادة النقاط وعدد المعالم المكتشفة. غير الفلاتر وشوف الرسوم تتغير فورا.",
	},
	{
		match: anyOf("صوت", "اتكلم", "تكلم"),
		text:  "على كارت أي معلم هتلاقي زر (اسمع الشرح). اضغطه وهيقرأ لك شرح المعلم بصوت.",
	},
	{
		match: anyOf("فيديو", "video", "يوتيوب"),
		text:  "أكيد. افتح أي معلم وهتلاقي (صورة/فيديو) داخل كارت المعلم لو متاح. قول اسم المعلم وأنا أوديك له مباشرة.",
	},

	// Water lesson.
	{
		lessonID: "water",
		match:    allOf(anyOf("فرق"), anyOf("عذبه", "مالحه")),
		text:     "العذبة: النيل والمياه الجوفية. المالحة: المتوسط والأحمر والبحيرات الساحلية. تحب نروح للنيل؟",
		flyTo:    "nile",
	},
	{
		lessonID: "water",
		match:    anyOf("استخدام", "بنستخدم"),
		text:     "العذبة: شرب وزراعة وصناعة. المالحة: صيد وملاحة وأملاح. تحب مثال على الخريطة؟",
		flyTo:    "redsea",
	},
	{
		lessonID: "water",
		match:    anyOf("مشكله", "مشكلات", "تلوث", "ندره"),
		text:     "أهم المشكلات: ندرة وتلوث وتغير مناخي. مثال: بحيرات ساحلية تتأثر بالتلوث. نروح لبحيرة البردويل؟",
		flyTo:    "bardawil",
	},

	// Minerals lesson.
	{
		lessonID: "minerals",
		match:    anyOf("ذهب", "السكري"),
		text:     "منجم السكري من أشهر أماكن الذهب في مصر. يلا نروح هناك!",
		flyTo:    "sukari",
	},
	{
		lessonID: "minerals",
		match:    allOf(anyOf("طاقه"), anyOf("متجدده")),
		text:     "طاقة متجددة: شمس (بنبان) ورياح (الزعفرانة). نروح لمحطة أسوان الشمسية؟",
		flyTo:    "aswan-solar",
	},

	// Projects lesson.
	{
		lessonID: "projects",
		match:    anyOf("تنميه", "مستدام"),
		text:     "التنمية المستدامة: نلبي احتياجات اليوم بدون ما نضيع حق المستقبل. مثال: طاقة شمسية نظيفة في بنبان.",
		flyTo:    "benban",
	},
	{
		lessonID: "projects",
		match:    anyOf("قناه", "السويس"),
		text:     "قناة السويس الجديدة ترفع كفاءة المرور الملاحي وتدعم الاقتصاد. يلا نروح لها.",
		flyTo:    "suezcanal",
	},
	{
		lessonID: "projects",
		match:    anyOf("عاصمه", "اداريه"),
		text:     "العاصمة الإدارية مدينة حديثة لتخفيف الضغط عن القاهرة وتحسين الخدمات. نروح لها؟",
		flyTo:    "newcap",
	},
}

// cannedReply returns the first matching rule for the normalized query,
// or nil. Lesson-independent rules run first.
func cannedReply(lessonID, nq string) *cannedRule {
	for i := range cannedRules {
		r := &cannedRules[i]
		if r.lessonID != "" && r.lessonID != lessonID {
			continue
		}
		if r.match(nq) {
			return r
		}
	}
	return nil
}
