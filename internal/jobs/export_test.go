package jobs

var RankByDistance = rankByDistance
