package backend

const sampleQuizJSON = `{
  "title": "Go basics",
  "questions": [
    {"id": "q1", "text": "Zero value of int?", "options": [{"id": "a", "text": "0"}, {"id": "b", "text": "nil"}], "correctOptionIds": ["a"]},
    {"id": "q2", "text": "Reference types?", "options": [{"id": "a", "text": "map"}, {"id": "b", "text": "int"}, {"id": "c", "text": "chan"}], "correctOptionIds": ["a", "c"]}
  ]
}`

const sampleResultJSON = `{
  "score": 1,
  "totalQuestions": 2,
  "percentageCorrect": "50.00",
  "results": [
    {"questionId": "q1", "isCorrect": true, "submittedAnswers": ["a"], "correctOptionIds": ["a"]},
    {"questionId": "q2", "isCorrect": false, "submittedAnswers": ["a"], "correctOptionIds": ["a", "c"]}
  ]
}`
