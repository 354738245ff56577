package leetcode

// GraphQL documents sent to the LeetCode endpoint. The question-progress
// contract is canonical; the getUserProfile bundle is the legacy schema kept
// for fallback (see client.go).

const questionProgressQuery = `
query userProfileUserQuestionProgressV2($userSlug: String!) {
    userProfileUserQuestionProgressV2(userSlug: $userSlug) {
        numAcceptedQuestions {
            difficulty
            count
        }
    }
}
`

const contestRankingQuery = `
query getUserContestRankingInfo($username: String!) {
    userContestRanking(username: $username) {
        rating
        globalRanking
        attendedContestCount
    }
}
`

const recentAcSubmissionsQuery = `
query recentAcSubmissions($username: String!, $limit: Int!) {
    recentAcSubmissionList(username: $username, limit: $limit) {
        title
        titleSlug
        timestamp
    }
}
`

const legacyUserProfileQuery = `
query getUserProfile($username: String!) {
    matchedUser(username: $username) {
        profile {
            ranking
            username
        }
        submitStats {
            acSubmissionNum {
                difficulty
                count
                submissions
            }
        }
    }
    recentSubmissionList(username: $username, limit: 20) {
        title
        titleSlug
        status
        difficulty
        submitTime
    }
}
`
